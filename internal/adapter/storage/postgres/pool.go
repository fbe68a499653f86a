package postgres

import (
	"context"
	"strings"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool is the subset of *pgxpool.Pool used by the repositories.
// pgxmock.PgxPoolIface satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// rowScanner is implemented by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Addresses and handles are stored as lowercase 0x-prefixed hex.

func addressText(a common.Address) string {
	return strings.ToLower(a.Hex())
}

func handleText(h domain.Handle) string {
	return h.Hex()
}

// nullableHandle maps an unassigned handle to NULL.
func nullableHandle(h domain.Handle) *string {
	if domain.IsZeroHandle(h) {
		return nil
	}
	s := handleText(h)
	return &s
}

func handleFromNullable(s *string) domain.Handle {
	if s == nil {
		return domain.Handle{}
	}
	return common.HexToHash(*s)
}
