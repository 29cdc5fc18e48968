package generator

import (
	"fmt"
	"strings"

	"server/internal/domain"
)

// genreNames maps the catalog's genre ids to display names for prompts and
// tags. Movie and TV listings share the relevant ids.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

// buildPrompt describes the media item to the content generator.
func buildPrompt(item domain.MediaItem, mediaType domain.MediaType) string {
	kind := "movie"
	if mediaType == domain.MediaTypeTV {
		kind = "TV show"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write an engaging, spoiler-light blog article about the %s \"%s\".", kind, item.Title)
	if year := item.ReleaseYear(); year > 0 {
		fmt.Fprintf(&b, " It was released in %d.", year)
	}
	if item.Rating > 0 {
		fmt.Fprintf(&b, " Its audience rating is %.1f out of 10.", item.Rating)
	}
	if genres := genreList(item.GenreIDs); len(genres) > 0 {
		fmt.Fprintf(&b, " Genres: %s.", strings.Join(genres, ", "))
	}
	if overview := strings.TrimSpace(item.Overview); overview != "" {
		fmt.Fprintf(&b, " Synopsis: %s", overview)
	}
	b.WriteString(" Cover what makes it worth watching, who it will appeal to, and close with a watch recommendation. Use markdown with a single top-level heading.")
	return b.String()
}

func buildTitle(content string, item domain.MediaItem) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "# "); ok {
			if title := strings.TrimSpace(after); title != "" {
				return title
			}
		}
		if line != "" {
			break
		}
	}
	return fmt.Sprintf("%s: Review and Where to Stream", item.Title)
}

func buildTags(item domain.MediaItem, mediaType domain.MediaType) []string {
	tags := []string{string(mediaType)}
	for _, name := range genreList(item.GenreIDs) {
		tags = append(tags, strings.ToLower(name))
	}
	return tags
}

func genreList(ids []int) []string {
	var names []string
	for _, id := range ids {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
