package domain

import (
	"fmt"
	"time"
)

// GenerationMode selects between a fixed-count run and a recurring schedule.
type GenerationMode string

const (
	ModeBatch      GenerationMode = "batch"
	ModeContinuous GenerationMode = "continuous"
)

const (
	// MinBatchCount and MaxBatchCount bound a single batch run.
	MinBatchCount = 1
	MaxBatchCount = 50

	// MinPostsPerHour and MaxPostsPerHour bound a continuous schedule.
	MinPostsPerHour = 1
	MaxPostsPerHour = 10
)

// GenerationConfig is the caller-supplied description of one generation job.
type GenerationConfig struct {
	MediaType    MediaType      `json:"type"`
	SortBy       SortBy         `json:"sortBy"`
	Mode         GenerationMode `json:"mode"`
	Count        int            `json:"count,omitempty"`
	PostsPerHour int            `json:"postsPerHour,omitempty"`

	// Optional candidate filters, applied client-side to listing pages.
	MinRating    float64 `json:"minRating,omitempty"`
	IncludeAdult bool    `json:"includeAdult,omitempty"`
	Genres       []int   `json:"genres,omitempty"`
	YearFrom     int     `json:"yearFrom,omitempty"`
	YearTo       int     `json:"yearTo,omitempty"`

	// Optional AI overrides. APIKey, when set, takes precedence over the
	// caller's vaulted key and the process-level key.
	AIModel string `json:"aiModel,omitempty"`
	APIKey  string `json:"apiKey,omitempty"`
}

// Validate checks the config against the supported enumerations and bounds.
func (c GenerationConfig) Validate() error {
	if !c.MediaType.Valid() {
		return fmt.Errorf("%w: unknown media type %q", ErrInvalidConfig, c.MediaType)
	}
	if !c.SortBy.Valid() {
		return fmt.Errorf("%w: unknown sort strategy %q", ErrInvalidConfig, c.SortBy)
	}
	switch c.Mode {
	case ModeBatch:
		if c.Count < MinBatchCount || c.Count > MaxBatchCount {
			return fmt.Errorf("%w: count must be between %d and %d", ErrInvalidConfig, MinBatchCount, MaxBatchCount)
		}
	case ModeContinuous:
		if c.PostsPerHour < MinPostsPerHour || c.PostsPerHour > MaxPostsPerHour {
			return fmt.Errorf("%w: postsPerHour must be between %d and %d", ErrInvalidConfig, MinPostsPerHour, MaxPostsPerHour)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.YearFrom != 0 && c.YearTo != 0 && c.YearFrom > c.YearTo {
		return fmt.Errorf("%w: yearFrom is after yearTo", ErrInvalidConfig)
	}
	return nil
}

// Interval derives the recurrence interval for a continuous schedule.
// postsPerHour in [1,10] maps to [6m, 1h].
func (c GenerationConfig) Interval() time.Duration {
	if c.PostsPerHour <= 0 {
		return time.Hour
	}
	return time.Hour / time.Duration(c.PostsPerHour)
}

// Matches applies the optional filters to one catalog item.
func (c GenerationConfig) Matches(item MediaItem) bool {
	if item.Adult && !c.IncludeAdult {
		return false
	}
	if c.MinRating > 0 && item.Rating < c.MinRating {
		return false
	}
	if len(c.Genres) > 0 && !hasAnyGenre(item.GenreIDs, c.Genres) {
		return false
	}
	if c.YearFrom > 0 || c.YearTo > 0 {
		year := item.ReleaseYear()
		if year == 0 {
			return false
		}
		if c.YearFrom > 0 && year < c.YearFrom {
			return false
		}
		if c.YearTo > 0 && year > c.YearTo {
			return false
		}
	}
	return true
}

func hasAnyGenre(have, want []int) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
