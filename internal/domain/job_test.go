package domain

import (
	"strings"
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{0, 2 * time.Second},
	}
	for _, tc := range cases {
		if got := RetryDelay(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: got %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestContinuousJobID(t *testing.T) {
	if got := ContinuousJobID("user-1"); got != "blog-gen-continuous-user-1" {
		t.Fatalf("unexpected id: %s", got)
	}
	if ContinuousJobID("a") == ContinuousJobID("b") {
		t.Fatal("ids for different users must differ")
	}
}

func TestNewBatchJobID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := NewBatchJobID(now)
	if !strings.HasPrefix(id, "blog-gen-1700000000000-") {
		t.Fatalf("unexpected id shape: %s", id)
	}
	if id == NewBatchJobID(now) {
		t.Fatal("ids minted at the same instant must still be unique")
	}
}

func TestJobContinuous(t *testing.T) {
	if (Job{IntervalMS: 0}).Continuous() {
		t.Fatal("batch job reported continuous")
	}
	if !(Job{IntervalMS: 900000}).Continuous() {
		t.Fatal("scheduled job not reported continuous")
	}
}
