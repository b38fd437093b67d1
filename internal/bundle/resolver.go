package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/storage"
)

// maxBundleSize caps how much of a bundle object we read. Pipeline bundles
// are well under 1 MiB; anything larger is a pipeline bug.
const maxBundleSize = 8 << 20

// Resolver fetches bundles from object storage by reference.
//
// Resolution is all-or-nothing: if any referenced bundle is missing or
// unreadable the whole operation fails with a data-fetch error, so the
// advisor never runs against a partial picture.
type Resolver struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewResolver creates a bundle resolver backed by the given storage.
func NewResolver(store storage.Storage, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

// Resolve fetches and parses a single bundle.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*Bundle, error) {
	const op = "bundle.Resolve"

	if ref == "" {
		return nil, domain.DataFetch(fmt.Errorf("empty bundle reference"), op, ref)
	}

	rc, info, err := r.store.Get(ctx, ref)
	if err != nil {
		if storage.IsNotFound(err) {
			r.logger.Warn("bundle not found", slog.String("ref", ref))
		}
		return nil, domain.DataFetch(err, op, ref)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxBundleSize))
	if err != nil {
		return nil, domain.DataFetch(fmt.Errorf("read bundle: %w", err), op, ref)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, domain.DataFetch(fmt.Errorf("parse bundle: %w", err), op, ref)
	}
	if b.Ticker == "" {
		return nil, domain.DataFetch(fmt.Errorf("bundle missing ticker"), op, ref)
	}
	b.Raw = string(raw)

	r.logger.Debug("bundle resolved",
		slog.String("ref", ref),
		slog.String("ticker", b.Ticker),
		slog.Int64("size", info.Size),
	)

	return &b, nil
}

// ResolveAll fetches every referenced bundle, preserving input order.
// The first failure aborts the whole resolution.
func (r *Resolver) ResolveAll(ctx context.Context, refs []string) ([]*Bundle, error) {
	bundles := make([]*Bundle, 0, len(refs))
	for _, ref := range refs {
		b, err := r.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}
