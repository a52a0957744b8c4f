package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/observability"
)

// runUnit executes fn as one transaction. Store failures are logged and
// counted under operation; caller mistakes (validation, not found, conflict)
// are returned silently.
func runUnit(ctx context.Context, tx domain.Transactor, operation string, fn func(ctx context.Context, s domain.Store) error) error {
	err := tx.WithinTx(ctx, fn)
	if err != nil && !isCallerError(err) {
		observability.UnitOfWorkFailuresTotal.WithLabelValues(operation).Inc()
		slog.ErrorContext(ctx, "unit of work rolled back", "operation", operation, "error", err)
	}
	return err
}

func isCallerError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrUnauthorized)
}
