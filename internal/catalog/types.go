package catalog

import (
	"context"

	"server/internal/domain"
)

// Page is one catalog listing page, already normalized to domain items.
type Page struct {
	Page       int
	TotalPages int
	Items      []domain.MediaItem
}

// Client fetches catalog listing pages for a media type and sort strategy.
type Client interface {
	FetchPage(ctx context.Context, mediaType domain.MediaType, sortBy domain.SortBy, page int) (*Page, error)
}

type listResponse struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Results    []listItem `json:"results"`
}

// listItem covers both movie and TV payload shapes; TV uses name and
// first_air_date where movies use title and release_date.
type listItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	GenreIDs     []int   `json:"genre_ids"`
	Adult        bool    `json:"adult"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
}

func (i listItem) toDomain() domain.MediaItem {
	title := i.Title
	if title == "" {
		title = i.Name
	}
	release := i.ReleaseDate
	if release == "" {
		release = i.FirstAirDate
	}
	return domain.MediaItem{
		ID:           i.ID,
		Title:        title,
		Overview:     i.Overview,
		Rating:       i.VoteAverage,
		ReleaseDate:  release,
		GenreIDs:     i.GenreIDs,
		Adult:        i.Adult,
		PosterPath:   i.PosterPath,
		BackdropPath: i.BackdropPath,
	}
}
