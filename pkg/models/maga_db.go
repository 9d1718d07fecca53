package models

// MangaDB is a series as stored in the local catalog. Tags are kept by title
// only, and Chapters is filled by single-series lookups.
type MangaDB struct {
	ID            string    `json:"id"`
	Source        Source    `json:"source"`
	URL           string    `json:"url"`
	PublicURL     string    `json:"public_url"`
	Title         string    `json:"title"`
	AltTitles     []string  `json:"alt_titles"`
	Authors       []string  `json:"authors"`
	Tags          []string  `json:"tags"`
	State         State     `json:"state,omitempty"`
	ContentRating string    `json:"content_rating,omitempty"`
	Rating        float32   `json:"rating"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Description   string    `json:"description,omitempty"`
	TotalChapters int       `json:"total_chapters"`
	UpdatedAt     int64     `json:"updated_at"`
	Chapters      []Chapter `json:"chapters,omitempty"`
}
