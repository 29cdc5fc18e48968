package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type pingRow struct{ err error }

func (r pingRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 1 {
		if p, ok := dest[0].(*int); ok {
			*p = 1
		}
	}
	return nil
}

type pingSQL struct{ err error }

func (s pingSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s pingSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return pingRow{err: s.err}
}

func (s pingSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func TestHealth(t *testing.T) {
	app := &App{SQL: pingSQL{}, Logger: zerolog.Nop()}

	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status mismatch: got %d want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealthReportsDatabaseDown(t *testing.T) {
	app := &App{SQL: pingSQL{err: errors.New("connection refused")}, Logger: zerolog.Nop()}

	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status mismatch: got %d want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
