package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ledgerQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LedgerRepository implements usecase.LedgerRepository with ledger-wide
// integrity queries.
type LedgerRepository struct {
	pool ledgerQuerier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithQuerier(pool)
}

func newLedgerRepositoryWithQuerier(pool ledgerQuerier) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// UnbalancedTransfers returns ids of transfer transactions whose entries do
// not form exactly one debit and one credit with a zero signed sum.
func (r *LedgerRepository) UnbalancedTransfers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id
		 FROM transactions t
		 LEFT JOIN ledger_entries e ON e.transaction_id = t.id
		 WHERE t.type = 'transfer'
		 GROUP BY t.id
		 HAVING count(e.id) <> 2
		    OR count(*) FILTER (WHERE e.kind = 'credit') <> 1
		    OR count(*) FILTER (WHERE e.kind = 'debit') <> 1
		    OR coalesce(sum(CASE WHEN e.kind = 'credit' THEN e.amount ELSE -e.amount END), -1) <> 0
		 ORDER BY t.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// MalformedMovements returns ids of deposit and withdrawal transactions that
// do not carry exactly one entry of the matching kind.
func (r *LedgerRepository) MalformedMovements(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id
		 FROM transactions t
		 LEFT JOIN ledger_entries e ON e.transaction_id = t.id
		 WHERE t.type IN ('deposit', 'withdrawal')
		 GROUP BY t.id, t.type
		 HAVING count(e.id) <> 1
		    OR (t.type = 'deposit' AND count(*) FILTER (WHERE e.kind = 'credit') <> 1)
		    OR (t.type = 'withdrawal' AND count(*) FILTER (WHERE e.kind = 'debit') <> 1)
		 ORDER BY t.id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return scanIDs(rows)
}
