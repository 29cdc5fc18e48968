package domain

// MediaType enumerates the two catalog namespaces.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether the media type is one of the supported namespaces.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// SortBy enumerates the catalog listing strategies.
type SortBy string

const (
	SortPopular      SortBy = "popular"
	SortTopRated     SortBy = "top_rated"
	SortUpcoming     SortBy = "upcoming"
	SortNowPlaying   SortBy = "now_playing"
	SortTrendingDay  SortBy = "trending_day"
	SortTrendingWeek SortBy = "trending_week"
)

// SortStrategies lists every supported listing strategy.
var SortStrategies = []SortBy{
	SortPopular,
	SortTopRated,
	SortUpcoming,
	SortNowPlaying,
	SortTrendingDay,
	SortTrendingWeek,
}

// Valid reports whether the sort strategy is supported.
func (s SortBy) Valid() bool {
	for _, known := range SortStrategies {
		if s == known {
			return true
		}
	}
	return false
}

// MediaItem is one entry from a catalog listing page, normalized across
// movie and TV payloads (title vs. name, release vs. first air date).
type MediaItem struct {
	ID           int64
	Title        string
	Overview     string
	Rating       float64
	ReleaseDate  string // YYYY-MM-DD, may be empty
	GenreIDs     []int
	Adult        bool
	PosterPath   string
	BackdropPath string
}

// ReleaseYear extracts the year from the release date, 0 when unknown.
func (m MediaItem) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year := 0
	for _, r := range m.ReleaseDate[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
