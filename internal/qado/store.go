package qado

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"github.com/DjordjeVuckovic/qado-check/internal/sparql"
	"github.com/DjordjeVuckovic/qado-check/pkg/stringsutil"
)

const (
	DefaultFetchTimeout = 60 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultRetryDelay   = 2 * time.Second
)

type StoreConfig struct {
	FetchURL     string
	UpdateURL    string
	ClassMatch   ClassMatch
	FetchTimeout time.Duration
	WriteTimeout time.Duration
	// WriteRetries is the number of extra attempts after a failed write.
	WriteRetries int
	RetryDelay   time.Duration
}

// Store reads candidates from and writes check records to a QADO triplestore.
// It holds no per-request state and is safe for concurrent use.
type Store struct {
	client *sparql.Client
	cfg    StoreConfig
}

func NewStore(client *sparql.Client, cfg StoreConfig) *Store {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.WriteRetries < 0 {
		cfg.WriteRetries = 0
	}
	if cfg.ClassMatch == "" {
		cfg.ClassMatch = MatchSubClass
	}
	return &Store{client: client, cfg: cfg}
}

// FetchCandidates lists every candidate query. Any failure is a *apperr.FetchError.
func (s *Store) FetchCandidates(ctx context.Context) ([]CandidateQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	resp, err := s.client.Query(ctx, s.cfg.FetchURL, CandidateSelect(s.cfg.ClassMatch), sparql.AcceptResultsJSON)
	if err != nil {
		return nil, &apperr.FetchError{Endpoint: s.cfg.FetchURL, Err: err}
	}
	if !resp.OK() {
		return nil, &apperr.FetchError{
			Endpoint: s.cfg.FetchURL,
			Status:   resp.Status,
			Err:      fmt.Errorf("unexpected response: %s", stringsutil.Truncate(string(resp.Body), 200)),
		}
	}

	res, err := sparql.DecodeResult(resp.Body)
	if err != nil {
		return nil, &apperr.FetchError{Endpoint: s.cfg.FetchURL, Err: fmt.Errorf("decode candidates: %w", err)}
	}
	if res.Kind != sparql.KindSelect {
		return nil, &apperr.FetchError{Endpoint: s.cfg.FetchURL, Err: errors.New("decode candidates: expected a SELECT result")}
	}

	candidates := make([]CandidateQuery, 0, len(res.Bindings))
	for i, b := range res.Bindings {
		id, okID := b.Value(VarQuery)
		text, okText := b.Value(VarText)
		if !okID || !okText {
			return nil, &apperr.FetchError{
				Endpoint: s.cfg.FetchURL,
				Err:      fmt.Errorf("decode candidates: binding %d lacks ?%s or ?%s", i, VarQuery, VarText),
			}
		}
		candidates = append(candidates, CandidateQuery{ID: id, Text: text})
	}

	slog.Info("Fetched candidate queries", "count", len(candidates), "endpoint", s.cfg.FetchURL, "latency", resp.Latency)
	return candidates, nil
}

// Record writes r as new facts. Any failure is a *apperr.WriteError.
func (s *Store) Record(ctx context.Context, r CheckRecord) error {
	stmt, err := InsertStatement(r)
	if err != nil {
		return &apperr.WriteError{QueryID: r.QueryID, Err: err}
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.WriteRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("Retrying check write", "query", r.QueryID, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return &apperr.WriteError{QueryID: r.QueryID, Err: ctx.Err()}
			case <-time.After(s.cfg.RetryDelay):
			}
		}

		lastErr = s.write(ctx, r.QueryID, stmt)
		if lastErr == nil {
			slog.Debug("Check recorded", "query", r.QueryID, "property", r.Property, "endpoint", r.Endpoint)
			return nil
		}
	}
	return lastErr
}

func (s *Store) write(ctx context.Context, queryID, stmt string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	resp, err := s.client.Update(ctx, s.cfg.UpdateURL, stmt)
	if err != nil {
		return &apperr.WriteError{QueryID: queryID, Err: err}
	}
	if !resp.OK() {
		return &apperr.WriteError{
			QueryID: queryID,
			Status:  resp.Status,
			Err:     fmt.Errorf("unexpected response: %s", stringsutil.Truncate(string(resp.Body), 200)),
		}
	}
	return nil
}
