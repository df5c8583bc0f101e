package catalog

import (
	"strconv"

	"github.com/cinedex/cinedex/internal/catalog/tmdb"
)

// genreNames is the fixed genre id table used when a raw record carries
// only genre ids. Unknown ids are dropped.
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
	878:   "Sci-Fi",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// MovieRecord is the canonical normalized movie shape consumed by views
// and stored verbatim as a favorite entry.
type MovieRecord struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Rating      string   `json:"rating"`
	Duration    string   `json:"duration"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	TrailerKey  string   `json:"trailerKey,omitempty"`
}

// Normalize converts a raw TMDB record into a MovieRecord. It is total:
// every field gets a value, with defaults substituting for missing data.
func Normalize(movie tmdb.Movie, imageBaseURL string) MovieRecord {
	record := MovieRecord{
		ID:          movie.ID,
		Title:       movie.Title,
		Subtitle:    releaseYear(movie),
		Rating:      strconv.FormatFloat(movie.VoteAverage, 'f', 1, 64),
		Duration:    formatRuntime(movie.Runtime),
		Genres:      resolveGenres(movie),
		Description: movie.Overview,
		Image:       resolveImage(movie, imageBaseURL),
		TrailerKey:  resolveTrailer(movie),
	}

	if record.Title == "" {
		record.Title = movie.Name
	}

	return record
}

// NormalizeAll maps Normalize over a raw result list.
func NormalizeAll(movies []tmdb.Movie, imageBaseURL string) []MovieRecord {
	records := make([]MovieRecord, len(movies))
	for i, m := range movies {
		records[i] = Normalize(m, imageBaseURL)
	}
	return records
}

// TrailerEmbedURL resolves a trailer key to an embeddable player URL.
func TrailerEmbedURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + key
}

func releaseYear(movie tmdb.Movie) string {
	date := movie.ReleaseDate
	if date == "" {
		date = movie.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return strconv.Itoa(minutes/60) + "h " + strconv.Itoa(minutes%60) + "m"
}

func resolveGenres(movie tmdb.Movie) []string {
	if len(movie.GenreIDs) > 0 {
		genres := make([]string, 0, len(movie.GenreIDs))
		for _, id := range movie.GenreIDs {
			if name, ok := genreNames[id]; ok {
				genres = append(genres, name)
			}
		}
		return genres
	}

	genres := make([]string, len(movie.Genres))
	for i, g := range movie.Genres {
		genres[i] = g.Name
	}
	return genres
}

func resolveImage(movie tmdb.Movie, imageBaseURL string) string {
	if movie.BackdropPath != nil && *movie.BackdropPath != "" {
		return imageBaseURL + *movie.BackdropPath
	}
	if movie.PosterPath != nil && *movie.PosterPath != "" {
		return imageBaseURL + *movie.PosterPath
	}
	return ""
}

func resolveTrailer(movie tmdb.Movie) string {
	if movie.Videos == nil {
		return ""
	}
	for _, video := range movie.Videos.Results {
		if video.Type == "Trailer" && video.Site == "YouTube" {
			return video.Key
		}
	}
	return ""
}
