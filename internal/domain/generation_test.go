package domain

import (
	"errors"
	"testing"
	"time"
)

func TestGenerationConfigValidate(t *testing.T) {
	valid := GenerationConfig{MediaType: MediaTypeTV, SortBy: SortTopRated, Mode: ModeBatch, Count: 3}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name string
		cfg  GenerationConfig
	}{
		{"unknown media type", GenerationConfig{MediaType: "anime", SortBy: SortPopular, Mode: ModeBatch, Count: 1}},
		{"unknown sort", GenerationConfig{MediaType: MediaTypeMovie, SortBy: "rating", Mode: ModeBatch, Count: 1}},
		{"unknown mode", GenerationConfig{MediaType: MediaTypeMovie, SortBy: SortPopular, Mode: "burst", Count: 1}},
		{"count zero", GenerationConfig{MediaType: MediaTypeMovie, SortBy: SortPopular, Mode: ModeBatch, Count: 0}},
		{"count over cap", GenerationConfig{MediaType: MediaTypeMovie, SortBy: SortPopular, Mode: ModeBatch, Count: 51}},
		{"posts per hour zero", GenerationConfig{MediaType: MediaTypeMovie, SortBy: SortPopular, Mode: ModeContinuous, PostsPerHour: 0}},
		{"posts per hour over cap", GenerationConfig{MediaType: MediaTypeMovie, SortBy: SortPopular, Mode: ModeContinuous, PostsPerHour: 11}},
		{"year range inverted", GenerationConfig{MediaType: MediaTypeMovie, SortBy: SortPopular, Mode: ModeBatch, Count: 1, YearFrom: 2024, YearTo: 2020}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGenerationConfigInterval(t *testing.T) {
	cases := []struct {
		postsPerHour int
		want         time.Duration
	}{
		{1, time.Hour},
		{4, 15 * time.Minute},
		{10, 6 * time.Minute},
		{0, time.Hour},
	}
	for _, tc := range cases {
		cfg := GenerationConfig{PostsPerHour: tc.postsPerHour}
		if got := cfg.Interval(); got != tc.want {
			t.Fatalf("postsPerHour=%d: got %v, want %v", tc.postsPerHour, got, tc.want)
		}
	}
	// 4 posts per hour must land on exactly 900000ms.
	if ms := (GenerationConfig{PostsPerHour: 4}).Interval().Milliseconds(); ms != 900000 {
		t.Fatalf("expected 900000ms, got %d", ms)
	}
}

func TestGenerationConfigMatches(t *testing.T) {
	item := MediaItem{ID: 42, Title: "The Signal", Rating: 7.4, ReleaseDate: "2021-06-18", GenreIDs: []int{18, 878}}

	cases := []struct {
		name string
		cfg  GenerationConfig
		want bool
	}{
		{"no filters", GenerationConfig{}, true},
		{"rating met", GenerationConfig{MinRating: 7.0}, true},
		{"rating missed", GenerationConfig{MinRating: 8.0}, false},
		{"genre overlap", GenerationConfig{Genres: []int{878, 27}}, true},
		{"genre miss", GenerationConfig{Genres: []int{27}}, false},
		{"year window hit", GenerationConfig{YearFrom: 2020, YearTo: 2022}, true},
		{"year too early", GenerationConfig{YearFrom: 2022}, false},
		{"year too late", GenerationConfig{YearTo: 2020}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Matches(item); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	adult := MediaItem{ID: 7, Adult: true}
	if (GenerationConfig{}).Matches(adult) {
		t.Fatal("adult item must be excluded by default")
	}
	if !(GenerationConfig{IncludeAdult: true}).Matches(adult) {
		t.Fatal("adult item must pass when includeAdult is set")
	}

	undated := MediaItem{ID: 8, ReleaseDate: ""}
	if (GenerationConfig{YearFrom: 2000}).Matches(undated) {
		t.Fatal("item without a release year must fail a year filter")
	}
}
