package domain

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the-matrix"},
		{"Spider-Man: No Way Home", "spider-man-no-way-home"},
		{"  Amélie  ", "amelie"},
		{"WALL·E", "wall-e"},
		{"2001: A Space Odyssey", "2001-a-space-odyssey"},
		{"---", ""},
		{"Señor  de los   Anillos", "senor-de-los-anillos"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	if got := ReadingTime(""); got != 0 {
		t.Fatalf("empty content: got %d, want 0", got)
	}
	if got := ReadingTime("just a few words"); got != 1 {
		t.Fatalf("short content: got %d, want 1", got)
	}
	long := strings.Repeat("word ", 401)
	if got := ReadingTime(long); got != 3 {
		t.Fatalf("401 words: got %d, want 3", got)
	}
	exact := strings.Repeat("word ", 400)
	if got := ReadingTime(exact); got != 2 {
		t.Fatalf("400 words: got %d, want 2", got)
	}
}

func TestExcerpt(t *testing.T) {
	short := "a brief teaser"
	if got := Excerpt(short, 280); got != short {
		t.Fatalf("short content must pass through, got %q", got)
	}
	long := strings.Repeat("alpha beta ", 50)
	got := Excerpt(long, 40)
	if len(got) > 45 {
		t.Fatalf("excerpt too long: %d bytes", len(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "…"), " ") {
		t.Fatalf("excerpt must end on a word boundary without trailing space: %q", got)
	}
}
