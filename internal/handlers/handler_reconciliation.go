package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks-app/bizbooks_backend/internal/dto"
	"github.com/bizbooks-app/bizbooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for statement reconciliation.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers routes for the reconciliation workflow.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recon := rg.Group("/reconciliation")
	{
		recon.POST("/auto-match", h.autoMatch)
		recon.POST("/approve", h.approveMatches)
		recon.POST("/create-entries", h.createEntriesForUnmatched)
		recon.POST("/bulk-action", h.bulkAction)
		recon.POST("/lock", h.lockReconciliation)
		recon.GET("/locks/:accountId", h.listLocks)
	}
}

// autoMatch godoc
// @Summary Run the statement matcher
// @Description Classifies each statement transaction against the account's ledger into matched, adjustment and unmatched buckets. Read-only; promotion happens through the workflow endpoints.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body dto.AutoMatchRequest true "Account and normalized statement transactions"
// @Success 200 {object} dto.AutoMatchResponse
// @Failure 400 {object} map[string]string "Invalid statement payload"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Matcher run failed"
// @Router /reconciliation/auto-match [post]
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, _, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.AutoMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AutoMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	stmts := make([]domain.StatementTransaction, len(req.StatementTransactions))
	for i, s := range req.StatementTransactions {
		stmts[i] = s.ToStatementTransaction()
	}

	result, err := h.reconciliationService.AutoMatch(c.Request.Context(), businessID, req.AccountID, stmts)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid statement payload", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrMatchInconsistency) {
			logger.Error("Matcher produced an inconsistent result", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		} else {
			logger.Error("Matcher run failed", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Matcher run failed"})
		}
		return
	}

	ledgerLines := make([]dto.LedgerLineResponse, 0, len(result.Matched))
	for i := range result.Matched {
		if result.Matched[i].Ledger != nil {
			ledgerLines = append(ledgerLines, dto.ToLedgerLineResponse(result.Matched[i].Ledger))
		}
	}

	c.JSON(http.StatusOK, dto.AutoMatchResponse{
		BankStatement:  req.StatementTransactions,
		LedgerEntries:  ledgerLines,
		MatchedItems:   dto.ToReconciliationItemResponses(result.Matched),
		UnmatchedItems: dto.ToReconciliationItemResponses(result.Unmatched),
		Adjustments:    dto.ToReconciliationItemResponses(result.Adjustment),
		Summary:        result.Stats,
		Status:         result.Status,
	})
}

// approveMatches godoc
// @Summary Approve matched items
// @Description Acknowledges matched items; ledger data is not mutated. Each item's outcome is reported independently.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body object{itemIds=[]string} true "Item IDs to approve"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /reconciliation/approve [post]
func (h *reconciliationHandler) approveMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req struct {
		ItemIDs []string `json:"itemIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApproveMatches", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	outcomes := h.reconciliationService.ApproveMatches(c.Request.Context(), businessID, req.ItemIDs, actor)
	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

// createEntriesForUnmatched godoc
// @Summary Create journal entries for unmatched items
// @Description Posts one two-line journal entry per unmatched statement item between the selected accounts. Failures are reported per item without aborting the batch.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateEntriesForUnmatchedRequest true "Unmatched items and target accounts"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /reconciliation/create-entries [post]
func (h *reconciliationHandler) createEntriesForUnmatched(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateEntriesForUnmatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntriesForUnmatched", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	outcomes := h.reconciliationService.CreateEntriesForUnmatched(c.Request.Context(), businessID, req, actor)
	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

// bulkAction godoc
// @Summary Apply a bulk reconciliation action
// @Description Applies approve or create across a selection, following the single-item contract per item
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body dto.BulkActionRequest true "Action and selection"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Unknown action or invalid request"
// @Router /reconciliation/bulk-action [post]
func (h *reconciliationHandler) bulkAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkAction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	outcomes, err := h.reconciliationService.BulkAction(c.Request.Context(), businessID, req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Bulk action failed", slog.String("error", err.Error()), slog.String("action", req.Action))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk action failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

// lockReconciliation godoc
// @Summary Lock a reconciled period
// @Description Marks the account's ledger closed on/before the period end; later writes into the period are rejected
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body dto.LockReconciliationRequest true "Account and period end"
// @Success 201 {object} dto.ReconciliationLockResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Period already locked"
// @Failure 500 {object} map[string]string "Failed to lock period"
// @Router /reconciliation/lock [post]
func (h *reconciliationHandler) lockReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, actor, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.LockReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LockReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	lock, err := h.reconciliationService.LockReconciliation(c.Request.Context(), businessID, req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to lock period", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock period"})
		}
		return
	}

	logger.Info("Reconciliation period locked", slog.String("account_id", lock.AccountID), slog.Time("period_end", lock.PeriodEnd))
	c.JSON(http.StatusCreated, dto.ToLockResponse(*lock))
}

// listLocks godoc
// @Summary List period locks for an account
// @Description Retrieves the reconciliation locks recorded for an account, newest period first
// @Tags reconciliation
// @Produce  json
// @Param   accountId path string true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list locks"
// @Router /reconciliation/locks/{accountId} [get]
func (h *reconciliationHandler) listLocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	businessID, _, ok := requestScope(c)
	if !ok {
		return
	}
	accountID := c.Param("accountId")

	locks, err := h.reconciliationService.ListLocks(c.Request.Context(), businessID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to list locks", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list locks"})
		}
		return
	}

	responses := make([]dto.ReconciliationLockResponse, len(locks))
	for i, lock := range locks {
		responses[i] = dto.ToLockResponse(lock)
	}
	c.JSON(http.StatusOK, gin.H{"locks": responses})
}
