package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for database storage.
type AccountType string

// Account is the database representation of a chart-of-accounts entry.
type Account struct {
	AccountID   string          `db:"account_id"`
	BusinessID  string          `db:"business_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType AccountType     `db:"account_type"`
	Description string          `db:"description"`
	IsActive    bool            `db:"is_active"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}
