package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/sqlinline"
)

func TestProgressGetMissing(t *testing.T) {
	sql := &stubSQL{queryRow: func(query string, args ...any) pgx.Row {
		if query != sqlinline.QGetProgress {
			t.Fatalf("unexpected query: %s", query)
		}
		return rowFunc(func(...any) error { return pgx.ErrNoRows })
	}}
	repo := NewProgressRepository(sql)

	rec, err := repo.Get(context.Background(), "user-1", domain.MediaTypeTV, domain.SortTopRated)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatal("missing cursor must return nil, not an error")
	}
}

func TestProgressUpsertScansRecord(t *testing.T) {
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotArgs []any
	sql := &stubSQL{queryRow: func(query string, args ...any) pgx.Row {
		if query != sqlinline.QUpsertProgress {
			t.Fatalf("unexpected query: %s", query)
		}
		gotArgs = args
		return rowFunc(func(dest ...any) error {
			*(dest[0].(*string)) = "rec-1"
			*(dest[1].(*string)) = "user-1"
			*(dest[2].(*string)) = "tv"
			*(dest[3].(*string)) = "top_rated"
			*(dest[4].(*int)) = 2
			*(dest[5].(*int)) = 7
			*(dest[6].(*int)) = 27
			*(dest[7].(*int64)) = 555
			*(dest[8].(*time.Time)) = updated
			return nil
		})
	}}
	repo := NewProgressRepository(sql)

	rec, err := repo.Upsert(context.Background(), "user-1", domain.MediaTypeTV, domain.SortTopRated, domain.ProgressPatch{
		CurrentPage:  domain.IntPtr(2),
		CurrentIndex: domain.IntPtr(7),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.MediaType != domain.MediaTypeTV || rec.SortBy != domain.SortTopRated {
		t.Fatalf("key not scanned back: %+v", rec)
	}
	if rec.CurrentPage != 2 || rec.CurrentIndex != 7 || rec.TotalGenerated != 27 || rec.LastMediaID != 555 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(gotArgs) != 7 {
		t.Fatalf("unexpected arg count: %d", len(gotArgs))
	}
	// Unset patch fields ride along as nil so coalesce keeps stored values.
	if gotArgs[5] != (*int)(nil) || gotArgs[6] != (*int64)(nil) {
		t.Fatalf("nil patch fields must stay nil: %v", gotArgs)
	}
}
