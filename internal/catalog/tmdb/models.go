package tmdb

// PagedResponse is the envelope TMDB returns for paged endpoints.
type PagedResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Page is the resolved result shape for paged queries. List endpoints
// (trending, upcoming, top rated) return a bare []Movie instead, so
// callers never branch on response shape.
type Page struct {
	Results    []Movie `json:"results"`
	TotalPages int     `json:"totalPages"`
}

// Movie is a raw movie record from TMDB, either a search/discover list
// entry (genre_ids) or a detail response (genres, runtime, videos).
type Movie struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Name          string          `json:"name"`
	OriginalTitle string          `json:"original_title"`
	Overview      string          `json:"overview"`
	ReleaseDate   string          `json:"release_date"`
	FirstAirDate  string          `json:"first_air_date"`
	PosterPath    *string         `json:"poster_path"`
	BackdropPath  *string         `json:"backdrop_path"`
	VoteAverage   float64         `json:"vote_average"`
	VoteCount     int             `json:"vote_count"`
	Popularity    float64         `json:"popularity"`
	Adult         bool            `json:"adult"`
	GenreIDs      []int           `json:"genre_ids"`
	Genres        []Genre         `json:"genres"`
	Runtime       int             `json:"runtime"`
	Videos        *VideosResponse `json:"videos,omitempty"`
	Credits       *Credits        `json:"credits,omitempty"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the response from /genre/movie/list.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// VideosResponse is the embedded video list from append_to_response=videos.
type VideosResponse struct {
	Results []Video `json:"results"`
}

// Video represents a video (trailer, teaser, etc.) from TMDB.
type Video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Official bool   `json:"official"`
}

// Credits is the embedded cast/crew list from append_to_response=credits.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember represents a cast member from TMDB credits.
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profile_path"`
}

// CrewMember represents a crew member from TMDB credits.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
