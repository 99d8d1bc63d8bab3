package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/bizbooks-app/bizbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournalEntry)
		journals.GET("", h.listJournalEntries)
		journals.GET("/:id", h.getJournalEntry)
		journals.PUT("/:id", h.updateJournalEntry)
		journals.DELETE("/:id", h.deleteJournalEntry)
		journals.POST("/:id/reverse", h.reverseJournalEntry)
	}
}

// writeJournalError maps service errors from journal writes onto HTTP codes.
func writeJournalError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, services.ErrEntryMinLines),
		errors.Is(err, services.ErrEntryMinAccounts),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on journal "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrLockedPeriod):
		logger.Warn("Journal "+action+" rejected by period lock", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotDraft), errors.Is(err, services.ErrNotPosted), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Journal "+action+" rejected by status", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
	default:
		logger.Error("Failed journal "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " journal entry"})
	}
}

// createJournalEntry godoc
// @Summary Create a journal entry
// @Description Posts a balanced double-entry journal entry, or saves it as an editable draft
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalEntryRequest true "Journal entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 409 {object} map[string]string "Period locked by reconciliation"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Router /journals [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), businessID, req, actor)
	if err != nil {
		writeJournalError(c, logger, err, "create")
		return
	}

	logger.Info("Journal entry created", slog.String("journal_id", entry.JournalID), slog.String("reference", entry.Reference))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves a journal entry with its ledger lines
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Router /journals/{id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, _, ok := requestScope(c)
	if !ok {
		return
	}
	journalID := c.Param("id")

	entry, err := h.journalService.GetJournalEntryByID(c.Request.Context(), businessID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			logger.Error("Failed to get journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of the business's journal entries, newest first
// @Tags journals
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Router /journals [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, _, ok := requestScope(c)
	if !ok {
		return
	}

	params := dto.ListJournalEntriesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.journalService.ListJournalEntries(c.Request.Context(), businessID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateJournalEntry godoc
// @Summary Update a draft journal entry
// @Description Edits a draft entry's header and replaces its lines; posted entries are immutable
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Param   journal body dto.UpdateJournalEntryRequest true "Fields to update"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft or period is locked"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Router /journals/{id} [put]
func (h *journalHandler) updateJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	journalID := c.Param("id")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.UpdateJournalEntry(c.Request.Context(), businessID, journalID, req, actor)
	if err != nil {
		writeJournalError(c, logger, err, "update")
		return
	}

	logger.Info("Journal entry updated", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteJournalEntry godoc
// @Summary Delete a draft journal entry
// @Description Removes a draft entry and its lines; posted entries must be reversed instead
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft or period is locked"
// @Failure 500 {object} map[string]string "Failed to delete journal entry"
// @Router /journals/{id} [delete]
func (h *journalHandler) deleteJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	journalID := c.Param("id")

	if err := h.journalService.DeleteJournalEntry(c.Request.Context(), businessID, journalID, actor); err != nil {
		writeJournalError(c, logger, err, "delete")
		return
	}

	logger.Info("Journal entry deleted", slog.String("journal_id", journalID))
	c.Status(http.StatusNoContent)
}

// reverseJournalEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a compensating entry with swapped debits and credits and marks the original reversed
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal entry ID to reverse"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted, already a reversal, or period is locked"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}
	journalID := c.Param("id")

	reversing, err := h.journalService.ReverseJournalEntry(c.Request.Context(), businessID, journalID, actor)
	if err != nil {
		writeJournalError(c, logger, err, "reverse")
		return
	}

	logger.Info("Journal entry reversed", slog.String("original_id", journalID), slog.String("reversing_id", reversing.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing))
}
