package repository

import (
	"context"

	"github.com/profitscout/profitscout/internal/domain"
)

const listStocksQuery = `
SELECT ticker, company_name, bundle_path, created_at
FROM stocks
ORDER BY ticker`

// ListStocks returns the full issuer catalog ordered by ticker.
func (q *Queries) ListStocks(ctx context.Context) ([]domain.Stock, error) {
	rows, err := q.db.QueryContext(ctx, listStocksQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.Stock
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.Ticker, &s.CompanyName, &s.BundlePath, &s.CreatedAt); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

const getStockQuery = `
SELECT ticker, company_name, bundle_path, created_at
FROM stocks
WHERE ticker = $1`

// GetStock retrieves one catalog entry. Returns sql.ErrNoRows if absent.
func (q *Queries) GetStock(ctx context.Context, ticker string) (*domain.Stock, error) {
	var s domain.Stock
	err := q.db.QueryRowContext(ctx, getStockQuery, ticker).
		Scan(&s.Ticker, &s.CompanyName, &s.BundlePath, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
