package invoice

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists per-dealer rate lists.
type Repository interface {
	ListRates(ctx context.Context, dealerCode string) ([]RateEntry, error)
	ReplaceRates(ctx context.Context, dealerCode string, rates []RateEntry) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListRates(ctx context.Context, dealerCode string) ([]RateEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, hsn_code, item, basic_price, sgst_percent, cgst_percent, rsp
FROM dealer_rates WHERE dealer_code=$1 ORDER BY position`, dealerCode)
	if err != nil {
		return nil, fmt.Errorf("invoice: list rates: %w", err)
	}
	defer rows.Close()

	var rates []RateEntry
	for rows.Next() {
		var e RateEntry
		if err := rows.Scan(&e.Code, &e.HSNCode, &e.Item, &e.BasicPrice, &e.SGSTPercent, &e.CGSTPercent, &e.RSP); err != nil {
			return nil, err
		}
		rates = append(rates, e)
	}
	return rates, rows.Err()
}

// ReplaceRates swaps the dealer's whole rate list in one transaction. The
// list is small and always edited as a whole, so delete-and-insert keeps
// ordering trivial.
func (r *repository) ReplaceRates(ctx context.Context, dealerCode string, rates []RateEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM dealer_rates WHERE dealer_code=$1`, dealerCode); err != nil {
			return fmt.Errorf("invoice: clear rates: %w", err)
		}
		for i, e := range rates {
			_, err := tx.Exec(ctx, `INSERT INTO dealer_rates
(dealer_code, position, code, hsn_code, item, basic_price, sgst_percent, cgst_percent, rsp)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				dealerCode, i, e.Code, e.HSNCode, e.Item, e.BasicPrice, e.SGSTPercent, e.CGSTPercent, e.RSP)
			if err != nil {
				return fmt.Errorf("invoice: insert rate %q: %w", e.Item, err)
			}
		}
		return nil
	})
}
