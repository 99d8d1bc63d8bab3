package pgsql

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/bizbooks-app/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks-app/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	"github.com/bizbooks-app/bizbooks_backend/internal/models"
	"github.com/bizbooks-app/bizbooks_backend/internal/utils/accounting"
	"github.com/bizbooks-app/bizbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal and ledger data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// Helper to convert models.JournalEntry from DB to domain.JournalEntry
func toDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalID:         m.JournalID,
		BusinessID:        m.BusinessID,
		JournalDate:       m.JournalDate,
		Description:       m.Description,
		Reference:         m.Reference,
		Status:            domain.JournalStatus(m.Status),
		Amount:            m.Amount,
		OriginalJournalID: m.OriginalJournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// Helper to convert models.LedgerLine from DB to domain.LedgerLine
func toDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:         m.LineID,
		JournalID:      m.JournalID,
		AccountID:      m.AccountID,
		LineDate:       m.LineDate,
		Description:    m.Description,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		RunningBalance: m.RunningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const journalColumns = `journal_id, business_id, journal_date, description, reference, status, amount, original_journal_id, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalID,
		&m.BusinessID,
		&m.JournalDate,
		&m.Description,
		&m.Reference,
		&m.Status,
		&m.Amount,
		&m.OriginalJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const lineColumns = `line_id, journal_id, account_id, line_date, description, debit_amount, credit_amount, running_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerLine(row pgx.Row) (models.LedgerLine, error) {
	var m models.LedgerLine
	err := row.Scan(
		&m.LineID,
		&m.JournalID,
		&m.AccountID,
		&m.LineDate,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// lineAccountIDs returns the sorted set of account IDs touched by the lines.
// Sorting keeps lock acquisition order deterministic across concurrent posts.
func lineAccountIDs(lines []domain.LedgerLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}
	sort.Strings(ids)
	return ids
}

// lockAccountsInTx serializes writers of the given accounts for the duration
// of the transaction. Advisory locks are taken in sorted order to avoid
// deadlocks between concurrent posts touching overlapping account sets.
func lockAccountsInTx(ctx context.Context, tx pgx.Tx, accountIDs []string) error {
	for _, accountID := range accountIDs {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, accountID); err != nil {
			return apperrors.NewAppError(500, "failed to acquire advisory lock for account "+accountID, err)
		}
	}
	return nil
}

// linesForReplayInTx loads an account's lines in replay order:
// (line_date, created_at, line_id) ascending. Lines of draft entries are
// included; a draft carries its balance effect from the moment it is saved,
// and deleting the draft takes the effect back out.
func linesForReplayInTx(ctx context.Context, tx pgx.Tx, accountID string) ([]domain.LedgerLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT line_id, debit_amount, credit_amount
		FROM ledger_lines
		WHERE account_id = $1
		ORDER BY line_date, created_at, line_id;
	`, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query replay lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var line domain.LedgerLine
		if err := rows.Scan(&line.LineID, &line.DebitAmount, &line.CreditAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan replay line for account "+accountID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating replay lines for account "+accountID, err)
	}
	return lines, nil
}

// recomputeBalancesInTx replays each account's lines in
// (line_date, created_at, line_id) order, rewriting the running balance
// snapshot on every line and the cached balance on the account row.
func recomputeBalancesInTx(ctx context.Context, tx pgx.Tx, accountIDs []string, userID string, now time.Time) error {
	for _, accountID := range accountIDs {
		lines, err := linesForReplayInTx(ctx, tx, accountID)
		if err != nil {
			return err
		}
		balance := accounting.ReplayBalances(lines)

		batch := &pgx.Batch{}
		for _, line := range lines {
			batch.Queue(`UPDATE ledger_lines SET running_balance = $2 WHERE line_id = $1;`, line.LineID, line.RunningBalance)
		}
		batch.Queue(`
			UPDATE accounts
			SET balance = $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1;
		`, accountID, balance, now, userID)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to write recomputed balances for account "+accountID, err)
		}
	}
	return nil
}

const insertLineQuery = `
	INSERT INTO ledger_lines (` + lineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

// insertLinesInTx batch-inserts ledger lines with a zero running balance
// placeholder; recomputeBalancesInTx fills the real snapshots afterwards.
func insertLinesInTx(ctx context.Context, tx pgx.Tx, journalID string, lines []domain.LedgerLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(insertLineQuery,
			line.LineID,
			line.JournalID,
			line.AccountID,
			line.LineDate,
			line.Description,
			line.DebitAmount,
			line.CreditAmount,
			line.RunningBalance,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for journal "+journalID, err)
	}
	return nil
}

func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		entry.JournalID,
		entry.BusinessID,
		entry.JournalDate,
		entry.Description,
		entry.Reference,
		entry.Status,
		entry.Amount,
		entry.OriginalJournalID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.JournalID, err)
	}
	return nil
}

// SaveJournalEntry saves an entry and its ledger lines, then recomputes the
// affected accounts' balances, all within one DB transaction.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error {
	accountIDs := lineAccountIDs(lines)

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccountsInTx(ctx, tx, accountIDs); err != nil {
			return err
		}
		// Row locks confirm every account still exists before we write.
		if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
			return apperrors.NewAppError(500, "failed to lock accounts for update", err)
		}

		if err := insertEntryInTx(ctx, tx, entry); err != nil {
			return err
		}
		if err := insertLinesInTx(ctx, tx, entry.JournalID, lines); err != nil {
			return err
		}

		return recomputeBalancesInTx(ctx, tx, accountIDs, entry.CreatedBy, entry.CreatedAt)
	})
}

// SaveReversal posts a reversing entry with its lines and flips the original
// entry to REVERSED in one DB transaction, so no reader observes the reversal
// half-applied. The status flip is guarded on the original still being
// POSTED, which makes a concurrent second reversal of the same entry fail
// with a conflict instead of double-posting.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.LedgerLine, originalJournalID string) error {
	accountIDs := lineAccountIDs(lines)

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccountsInTx(ctx, tx, accountIDs); err != nil {
			return err
		}
		if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
			return apperrors.NewAppError(500, "failed to lock accounts for update", err)
		}

		markQuery := `
			UPDATE journal_entries
			SET status = $2,
			    last_updated_at = $3,
			    last_updated_by = $4
			WHERE journal_id = $1 AND status = 'POSTED';
		`
		cmdTag, err := tx.Exec(ctx, markQuery, originalJournalID, domain.Reversed, reversing.CreatedAt, reversing.CreatedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark journal entry "+originalJournalID+" reversed", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewConflictError("journal entry " + originalJournalID + " is not posted")
		}

		if err := insertEntryInTx(ctx, tx, reversing); err != nil {
			return err
		}
		if err := insertLinesInTx(ctx, tx, reversing.JournalID, lines); err != nil {
			return err
		}

		return recomputeBalancesInTx(ctx, tx, accountIDs, reversing.CreatedBy, reversing.CreatedAt)
	})
}

// ReplaceJournalLines swaps a draft entry's lines for a new set, updating the
// header and recomputing balances for the union of old and new accounts.
func (r *PgxJournalRepository) ReplaceJournalLines(ctx context.Context, entry domain.JournalEntry, lines []domain.LedgerLine) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		oldAccountIDs, err := accountIDsForJournalInTx(ctx, tx, entry.JournalID)
		if err != nil {
			return err
		}
		accountIDs := unionSorted(oldAccountIDs, lineAccountIDs(lines))
		if err := lockAccountsInTx(ctx, tx, accountIDs); err != nil {
			return err
		}
		if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
			return apperrors.NewAppError(500, "failed to lock accounts for update", err)
		}

		headerQuery := `
			UPDATE journal_entries
			SET journal_date = $2,
			    description = $3,
			    amount = $4,
			    last_updated_at = $5,
			    last_updated_by = $6
			WHERE journal_id = $1 AND status = 'DRAFT';
		`
		cmdTag, err := tx.Exec(ctx, headerQuery,
			entry.JournalID,
			entry.JournalDate,
			entry.Description,
			entry.Amount,
			entry.LastUpdatedAt,
			entry.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update journal entry "+entry.JournalID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("draft journal entry " + entry.JournalID + " not found for update")
		}

		if _, err := tx.Exec(ctx, `DELETE FROM ledger_lines WHERE journal_id = $1;`, entry.JournalID); err != nil {
			return apperrors.NewAppError(500, "failed to delete old lines for journal "+entry.JournalID, err)
		}
		if err := insertLinesInTx(ctx, tx, entry.JournalID, lines); err != nil {
			return err
		}

		return recomputeBalancesInTx(ctx, tx, accountIDs, entry.LastUpdatedBy, entry.LastUpdatedAt)
	})
}

// DeleteJournalEntry removes a draft entry and its lines, then recomputes the
// previously affected accounts.
func (r *PgxJournalRepository) DeleteJournalEntry(ctx context.Context, journalID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		accountIDs, err := accountIDsForJournalInTx(ctx, tx, journalID)
		if err != nil {
			return err
		}
		if err := lockAccountsInTx(ctx, tx, accountIDs); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM ledger_lines WHERE journal_id = $1;`, journalID); err != nil {
			return apperrors.NewAppError(500, "failed to delete lines for journal "+journalID, err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE journal_id = $1 AND status = 'DRAFT';`, journalID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to delete journal entry "+journalID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("draft journal entry " + journalID + " not found for delete")
		}

		return recomputeBalancesInTx(ctx, tx, accountIDs, "system", time.Now().UTC())
	})
}

// accountIDsForJournalInTx returns the sorted distinct account IDs referenced
// by an entry's current lines.
func accountIDsForJournalInTx(ctx context.Context, tx pgx.Tx, journalID string) ([]string, error) {
	rows, err := tx.Query(ctx, `SELECT DISTINCT account_id FROM ledger_lines WHERE journal_id = $1 ORDER BY account_id;`, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for journal "+journalID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account ID for journal "+journalID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account IDs for journal "+journalID, err)
	}
	return ids, nil
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// FindJournalEntryByID retrieves a journal entry by its ID.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE journal_id = $1;
	`
	m, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+journalID, err)
	}

	entry := toDomainJournalEntry(m)
	return &entry, nil
}

// ListJournalEntries retrieves a paginated list of entries for a business
// using token-based pagination, newest first.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE business_id = $1
	`
	// Ordering must be stable: journal_date DESC with created_at as tie-breaker.
	orderByClause := `ORDER BY journal_date DESC, created_at DESC`

	args := []interface{}{businessID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (journal_date, created_at) < ($2, $3) `
		args = append(args, lastDate, lastCreatedAt)
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for business "+businessID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanJournalEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row for business "+businessID, scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows for business "+businessID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = toDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

// FindLinesByJournalID retrieves all lines belonging to an entry.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM ledger_lines
		WHERE journal_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal "+journalID, err)
		}
		lines = append(lines, toDomainLedgerLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal "+journalID, err)
	}
	return lines, nil
}

// FindLinesByAccountID retrieves every posted ledger line of an account in
// replay order: line_date, then created_at, then line_id. Reversed entries and
// their reversal counterparts are excluded so the result reflects the
// account's effective activity.
func (r *PgxJournalRepository) FindLinesByAccountID(ctx context.Context, businessID, accountID string) ([]domain.LedgerLine, error) {
	query := `
		SELECT l.line_id, l.journal_id, l.account_id, l.line_date, l.description, l.debit_amount, l.credit_amount, l.running_balance, l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM ledger_lines l
		JOIN journal_entries j ON j.journal_id = l.journal_id
		WHERE l.account_id = $1 AND j.business_id = $2
		  AND j.status = 'POSTED' AND j.original_journal_id IS NULL
		ORDER BY l.line_date, l.created_at, l.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, businessID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		lines = append(lines, toDomainLedgerLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}
	return lines, nil
}

// ListLinesByAccountID retrieves a paginated list of an account's lines using
// token-based pagination, newest first.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, businessID, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.journal_id, l.account_id, l.line_date, l.description, l.debit_amount, l.credit_amount, l.running_balance, l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM ledger_lines l
		JOIN journal_entries j ON j.journal_id = l.journal_id
		WHERE l.account_id = $1 AND j.business_id = $2
	`
	orderByClause := `ORDER BY l.line_date DESC, l.created_at DESC`

	args := []interface{}{accountID, businessID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (l.line_date, l.created_at) < ($3, $4) `
		args = append(args, lastDate, lastCreatedAt)
	}

	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID+" in business "+businessID, err)
	}
	defer rows.Close()

	modelLines := make([]models.LedgerLine, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		modelLines = append(modelLines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := modelLines
	if len(modelLines) > limit {
		last := modelLines[limit-1]
		token := pagination.EncodeToken(last.LineDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelLines[:limit]
	}

	lines := make([]domain.LedgerLine, len(results))
	for i, m := range results {
		lines[i] = toDomainLedgerLine(m)
	}
	return lines, nextTokenVal, nil
}

// RecomputeAccountBalance rebuilds the account's running balance snapshots
// and cached balance from its ledger lines in a single transaction, returning
// the refreshed account. Safe to call repeatedly.
func (r *PgxJournalRepository) RecomputeAccountBalance(ctx context.Context, accountID string) (domain.Account, error) {
	var account domain.Account

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockAccountsInTx(ctx, tx, []string{accountID}); err != nil {
			return err
		}
		if err := recomputeBalancesInTx(ctx, tx, []string{accountID}, "system", time.Now().UTC()); err != nil {
			return err
		}

		query := `
			SELECT ` + accountColumns + `
			FROM accounts
			WHERE account_id = $1;
		`
		m, err := scanAccount(tx.QueryRow(ctx, query, accountID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to reload account "+accountID+" after recompute", err)
		}
		account = toDomainAccount(m)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}
