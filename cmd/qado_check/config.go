package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/qado-check/internal/apperr"
	"github.com/DjordjeVuckovic/qado-check/internal/check/probe"
	"github.com/DjordjeVuckovic/qado-check/internal/qado"
	"github.com/DjordjeVuckovic/qado-check/pkg/config/env"
)

const usageText = `usage: qado_check <fetch-endpoint> <update-endpoint>

Validates every QADO benchmark query against public knowledge graphs and
records the outcome in the triplestore.

  fetch-endpoint    SPARQL query endpoint of the QADO triplestore
  update-endpoint   SPARQL update endpoint of the QADO triplestore

Further settings are read from the environment (see README).
`

var errUsage = errors.New("usage")

type cliConfig struct {
	FetchURL  string
	UpdateURL string
}

// parseArgs expects exactly two positional endpoint URLs. Any other shape
// prints usage to out and returns errUsage.
func parseArgs(args []string, out io.Writer) (cliConfig, error) {
	fs := flag.NewFlagSet("qado_check", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usageText) }

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, errUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return cliConfig{}, errUsage
	}

	cfg := cliConfig{FetchURL: fs.Arg(0), UpdateURL: fs.Arg(1)}
	for _, u := range []string{cfg.FetchURL, cfg.UpdateURL} {
		if !isHTTPURL(u) {
			fmt.Fprintf(out, "invalid endpoint URL %q\n\n", u)
			fs.Usage()
			return cliConfig{}, errUsage
		}
	}
	return cfg, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type CheckConfig struct {
	Workers      int
	FetchTimeout time.Duration
	ProbeTimeout time.Duration
	ClassMatch   qado.ClassMatch
	Endpoints    []probe.Endpoint
	RateLimit    float64
	WriteRetries int
	DryRun       bool
	ReportPath   string
	MetricsPath  string
	LogLevel     slog.Level
}

func (as *AppConfig) Load() (*CheckConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/qado_check/.env"); err != nil {
		slog.Info("Failed to load .env file, continuing with existing environment variables", "error", err)
	}
	return loadCheckConfig()
}

func loadCheckConfig() (*CheckConfig, error) {
	cfg := &CheckConfig{
		ReportPath:  env.String("REPORT_PATH", ""),
		MetricsPath: env.String("METRICS_PATH", ""),
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	cfg.Workers, err = env.Int("WORKERS", 0)
	collect(err)
	cfg.FetchTimeout, err = env.Duration("FETCH_TIMEOUT", qado.DefaultFetchTimeout)
	collect(err)
	cfg.ProbeTimeout, err = env.Duration("PROBE_TIMEOUT", probe.DefaultTimeout)
	collect(err)
	cfg.RateLimit, err = env.Float("PROBE_RATE_LIMIT", 0)
	collect(err)
	cfg.WriteRetries, err = env.Int("WRITE_RETRIES", 0)
	collect(err)
	cfg.DryRun, err = env.Bool("DRY_RUN", false)
	collect(err)
	cfg.ClassMatch, err = qado.ParseClassMatch(env.String("CLASS_MATCH", ""))
	collect(err)
	cfg.LogLevel, err = parseLogLevel(env.String("LOG_LEVEL", "info"))
	collect(err)

	if path := env.String("ENDPOINTS_FILE", ""); path != "" {
		cfg.Endpoints, err = probe.LoadEndpointsFile(path)
		collect(err)
	} else {
		cfg.Endpoints = probe.DefaultEndpoints()
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CheckConfig) validate() error {
	switch {
	case c.Workers < 0:
		return apperr.NewValidation("WORKERS must not be negative")
	case c.FetchTimeout <= 0:
		return apperr.NewValidation("FETCH_TIMEOUT must be positive")
	case c.ProbeTimeout <= 0:
		return apperr.NewValidation("PROBE_TIMEOUT must be positive")
	case c.RateLimit < 0:
		return apperr.NewValidation("PROBE_RATE_LIMIT must not be negative")
	case c.WriteRetries < 0:
		return apperr.NewValidation("WRITE_RETRIES must not be negative")
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return lvl, nil
}
