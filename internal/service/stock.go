// This file implements the issuer catalog service.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// StockService exposes the issuer catalog: which stocks can be analyzed and
// where each one's data bundle lives.
type StockService interface {
	// List returns the full catalog ordered by ticker.
	List(ctx context.Context) ([]domain.Stock, error)

	// BundleRefs maps tickers to their bundle storage keys, preserving
	// order. An unknown ticker fails the whole lookup.
	BundleRefs(ctx context.Context, tickers []string) ([]string, error)
}

// =============================================================================
// Implementation
// =============================================================================

type stockService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewStockService creates a new StockService.
func NewStockService(queries *repository.Queries, logger *slog.Logger) StockService {
	return &stockService{
		queries: queries,
		logger:  logger,
	}
}

func (s *stockService) List(ctx context.Context) ([]domain.Stock, error) {
	const op = "stock.list"

	stocks, err := s.queries.ListStocks(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list stock catalog")
	}
	return stocks, nil
}

func (s *stockService) BundleRefs(ctx context.Context, tickers []string) ([]string, error) {
	const op = "stock.bundle_refs"

	refs := make([]string, 0, len(tickers))
	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			return nil, domain.Invalid(op, "ticker must be non-empty")
		}

		stock, err := s.queries.GetStock(ctx, ticker)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.NotFound(op, "stock", ticker)
			}
			return nil, domain.Internal(err, op, "failed to look up stock")
		}
		refs = append(refs, stock.BundlePath)
	}
	return refs, nil
}
