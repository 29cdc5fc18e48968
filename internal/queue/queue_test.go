package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/sqlinline"
)

func TestEnqueueContinuousConflict(t *testing.T) {
	sql := &fakeSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			if query != sqlinline.QInsertContinuousJob {
				t.Fatalf("unexpected query: %s", query)
			}
			return noRow{}
		},
	}
	q := New(sql, zerolog.Nop())

	payload := continuousPayload("user-1", 4)
	_, err := q.EnqueueContinuous(context.Background(), payload)
	if !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestEnqueueContinuousIntervalAndID(t *testing.T) {
	var gotID string
	var gotInterval int64
	sql := &fakeSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			gotID = args[0].(string)
			gotInterval = args[5].(int64)
			return jobRow(t, args[0].(string), args[3].([]byte), gotInterval)
		},
	}
	q := New(sql, zerolog.Nop())

	job, err := q.EnqueueContinuous(context.Background(), continuousPayload("user-1", 4))
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if gotID != "blog-gen-continuous-user-1" {
		t.Fatalf("unexpected id: %s", gotID)
	}
	if gotInterval != 900000 {
		t.Fatalf("expected 900000ms interval, got %d", gotInterval)
	}
	if job.Payload.UserID != "user-1" || job.Payload.Config.PostsPerHour != 4 {
		t.Fatalf("payload not round-tripped: %+v", job.Payload)
	}
}

func TestCancelNotFound(t *testing.T) {
	sql := &fakeSQL{
		exec: func(query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	q := New(sql, zerolog.Nop())
	if err := q.Cancel(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClaimNoJob(t *testing.T) {
	sql := &fakeSQL{
		queryRow: func(string, ...any) pgx.Row { return noRow{} },
	}
	q := New(sql, zerolog.Nop())
	if _, err := q.Claim(context.Background()); !errors.Is(err, ErrNoJobAvailable) {
		t.Fatalf("expected ErrNoJobAvailable, got %v", err)
	}
}

func TestFailSchedulesRetryWithBackoff(t *testing.T) {
	var gotQuery string
	var gotDelay int64
	sql := &fakeSQL{
		exec: func(query string, args ...any) (pgconn.CommandTag, error) {
			gotQuery = query
			gotDelay = args[2].(int64)
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	q := New(sql, zerolog.Nop())

	job := &domain.Job{ID: "j1", Attempts: 2}
	if err := q.Fail(context.Background(), job, errors.New("provider timeout")); err != nil {
		t.Fatalf("fail returned error: %v", err)
	}
	if gotQuery != sqlinline.QRetryJob {
		t.Fatal("expected a retry reschedule")
	}
	if gotDelay != (4 * time.Second).Milliseconds() {
		t.Fatalf("second attempt must back off 4s, got %dms", gotDelay)
	}
}

func TestFailExhaustedBatchIsRetained(t *testing.T) {
	var gotQuery string
	var gotReason string
	sql := &fakeSQL{
		exec: func(query string, args ...any) (pgconn.CommandTag, error) {
			gotQuery = query
			gotReason = args[1].(string)
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	q := New(sql, zerolog.Nop())

	job := &domain.Job{ID: "j1", Attempts: domain.MaxJobAttempts}
	if err := q.Fail(context.Background(), job, errors.New("boom")); err != nil {
		t.Fatalf("fail returned error: %v", err)
	}
	if gotQuery != sqlinline.QFailJob {
		t.Fatal("exhausted batch job must be marked failed")
	}
	if gotReason != "boom" {
		t.Fatalf("unexpected reason: %q", gotReason)
	}
}

func TestFailExhaustedContinuousKeepsSchedule(t *testing.T) {
	var gotQuery string
	sql := &fakeSQL{
		exec: func(query string, args ...any) (pgconn.CommandTag, error) {
			gotQuery = query
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	q := New(sql, zerolog.Nop())

	job := &domain.Job{ID: "j1", Attempts: domain.MaxJobAttempts, IntervalMS: 900000}
	if err := q.Fail(context.Background(), job, errors.New("boom")); err != nil {
		t.Fatalf("fail returned error: %v", err)
	}
	if gotQuery != sqlinline.QRescheduleContinuous {
		t.Fatal("exhausted continuous occurrence must re-arm the schedule")
	}
}

func TestCompleteBatchTrimsRetention(t *testing.T) {
	var queries []string
	sql := &fakeSQL{
		exec: func(query string, args ...any) (pgconn.CommandTag, error) {
			queries = append(queries, query)
			if query == sqlinline.QTrimCompletedJobs {
				if args[0].(string) != "user-1" {
					t.Fatalf("trim scoped to wrong user: %v", args[0])
				}
				if args[1].(int) != domain.CompletedJobRetention {
					t.Fatalf("unexpected retention: %v", args[1])
				}
			}
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	q := New(sql, zerolog.Nop())

	job := &domain.Job{ID: "j1", Payload: domain.JobPayload{UserID: "user-1"}}
	if err := q.Complete(context.Background(), job); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if len(queries) != 2 || queries[0] != sqlinline.QCompleteJob || queries[1] != sqlinline.QTrimCompletedJobs {
		t.Fatalf("unexpected query sequence: %v", queries)
	}
}

func TestCompleteContinuousReschedules(t *testing.T) {
	var gotQuery string
	var gotInterval int64
	sql := &fakeSQL{
		exec: func(query string, args ...any) (pgconn.CommandTag, error) {
			gotQuery = query
			gotInterval = args[2].(int64)
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	q := New(sql, zerolog.Nop())

	job := &domain.Job{ID: "j1", IntervalMS: 360000}
	if err := q.Complete(context.Background(), job); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if gotQuery != sqlinline.QRescheduleContinuous {
		t.Fatal("continuous completion must re-arm the schedule")
	}
	if gotInterval != 360000 {
		t.Fatalf("unexpected interval: %d", gotInterval)
	}
}

func TestMetrics(t *testing.T) {
	sql := &fakeSQL{
		query: func(query string, args ...any) (pgx.Rows, error) {
			if query != sqlinline.QQueueMetrics {
				return nil, fmt.Errorf("unexpected query: %s", query)
			}
			return &metricsRows{rows: [][2]any{
				{"waiting", 3},
				{"active", 1},
				{"delayed", 2},
				{"completed", 40},
				{"failed", 5},
			}}, nil
		},
	}
	q := New(sql, zerolog.Nop())

	metrics, err := q.Metrics(context.Background())
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	want := domain.QueueMetrics{Waiting: 3, Active: 1, Delayed: 2, Completed: 40, Failed: 5}
	if *metrics != want {
		t.Fatalf("got %+v, want %+v", *metrics, want)
	}
}

func TestHasLiveJob(t *testing.T) {
	sql := &fakeSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			if query != sqlinline.QCountLiveUserJobs {
				t.Fatalf("unexpected query: %s", query)
			}
			return scanRow(func(dest ...any) error {
				*(dest[0].(*int)) = 1
				return nil
			})
		},
	}
	q := New(sql, zerolog.Nop())

	live, err := q.HasLiveJob(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("has live job failed: %v", err)
	}
	if !live {
		t.Fatal("expected live job")
	}
}

func continuousPayload(userID string, postsPerHour int) domain.JobPayload {
	return domain.JobPayload{
		UserID:   userID,
		AuthorID: userID,
		Config: domain.GenerationConfig{
			MediaType:    domain.MediaTypeMovie,
			SortBy:       domain.SortPopular,
			Mode:         domain.ModeContinuous,
			PostsPerHour: postsPerHour,
		},
	}
}

type fakeSQL struct {
	exec     func(query string, args ...any) (pgconn.CommandTag, error)
	queryRow func(query string, args ...any) pgx.Row
	query    func(query string, args ...any) (pgx.Rows, error)
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.exec == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
	}
	return f.exec(query, args...)
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if f.queryRow == nil {
		return noRow{}
	}
	return f.queryRow(query, args...)
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.query == nil {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return f.query(query, args...)
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

type scanRow func(dest ...any) error

func (r scanRow) Scan(dest ...any) error { return r(dest...) }

// jobRow scans back the 13 job columns with the given id, payload, and
// interval, mirroring the returning clause of the insert statements.
func jobRow(t *testing.T, id string, payload []byte, intervalMS int64) pgx.Row {
	t.Helper()
	var decoded domain.JobPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload sent to sql is not valid json: %v", err)
	}
	now := time.Now()
	return scanRow(func(dest ...any) error {
		if len(dest) != 13 {
			return fmt.Errorf("unexpected scan args: %d", len(dest))
		}
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = decoded.UserID
		*(dest[2].(*string)) = decoded.AuthorID
		*(dest[3].(*[]byte)) = append([]byte(nil), payload...)
		*(dest[4].(*int)) = domain.PriorityContinuous
		*(dest[5].(*string)) = string(domain.JobStatusWaiting)
		*(dest[6].(*int)) = 0
		*(dest[7].(*int)) = 0
		*(dest[8].(*int64)) = intervalMS
		*(dest[9].(*time.Time)) = now
		*(dest[10].(*string)) = ""
		*(dest[11].(*time.Time)) = now
		*(dest[12].(*time.Time)) = now
		return nil
	})
}

type metricsRows struct {
	rows [][2]any
	idx  int
}

func (m *metricsRows) Next() bool {
	if m.idx >= len(m.rows) {
		return false
	}
	m.idx++
	return true
}

func (m *metricsRows) Scan(dest ...any) error {
	row := m.rows[m.idx-1]
	*(dest[0].(*string)) = row[0].(string)
	*(dest[1].(*int)) = row[1].(int)
	return nil
}

func (m *metricsRows) Err() error { return nil }

func (m *metricsRows) Close() {}

func (m *metricsRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (m *metricsRows) Conn() *pgx.Conn { return nil }

func (m *metricsRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (m *metricsRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (m *metricsRows) RawValues() [][]byte { return nil }
