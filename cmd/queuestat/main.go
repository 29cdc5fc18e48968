package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/infra"
	"server/internal/queue"
)

func main() {
	var userFlag string
	flag.StringVar(&userFlag, "user", "", "also list the jobs of this user ID")
	flag.Parse()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "queuestat").Logger()
	q := queue.New(infra.NewSQLRunner(pool, logger), logger)

	metrics, err := q.Metrics(ctx)
	if err != nil {
		exitWithError(fmt.Errorf("failed to read queue metrics: %w", err))
	}
	fmt.Printf("waiting=%d active=%d delayed=%d completed=%d failed=%d\n",
		metrics.Waiting, metrics.Active, metrics.Delayed, metrics.Completed, metrics.Failed)

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		return
	}

	jobs, err := q.UserJobs(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to list jobs for %s: %w", userID, err))
	}
	if len(jobs) == 0 {
		fmt.Printf("no jobs for user %s\n", userID)
		return
	}
	for _, job := range jobs {
		line := fmt.Sprintf("%s status=%s mode=%s attempts=%d progress=%d%%",
			job.ID, job.Status, job.Payload.Config.Mode, job.Attempts, job.Progress)
		if job.Continuous() {
			line += fmt.Sprintf(" intervalMs=%d nextRunAt=%s", job.IntervalMS, job.RunAt.Format(time.RFC3339))
		}
		if job.FailedReason != "" {
			line += " failedReason=" + job.FailedReason
		}
		fmt.Println(line)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
