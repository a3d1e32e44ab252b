package main

import (
	"context"
	"log/slog"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"github.com/DjordjeVuckovic/qado-check/internal/qado"
)

// dryRunRecorder builds each insert statement but only logs it.
type dryRunRecorder struct{}

func (dryRunRecorder) Record(_ context.Context, r qado.CheckRecord) error {
	stmt, err := qado.InsertStatement(r)
	if err != nil {
		return &apperr.WriteError{QueryID: r.QueryID, Err: err}
	}
	slog.Debug("Dry run, skipping update", "query", r.QueryID, "property", r.Property, "statement", stmt)
	return nil
}
