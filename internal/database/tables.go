package database

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
)

// PSQL builder с $-плейсхолдерами для postgres.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	FamiliesTable    = "families"
	MembersTable     = "members"
	DevicesTable     = "devices"
	EventsTable      = "events"
	ExceptionsTable  = "event_exceptions"
	CompletionsTable = "task_completions"
	XPEntriesTable   = "xp_entries"
	PetsTable        = "pets"
	RolloversTable   = "pet_rollovers"
	WalletTxTable    = "wallet_transactions"
	GoalsTable       = "savings_goals"
	CycleTable       = "cycle_records"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Repositories map it to model.ErrAlreadyExists or
// model.ErrConflict depending on the operation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
