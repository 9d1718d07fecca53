package models

import "github.com/google/uuid"

// RatingUnknown marks a series whose source publishes no usable score.
const RatingUnknown float32 = -1

// State is the publication lifecycle of a series. The zero value means unknown.
type State string

const (
	StateUnknown    State = ""
	StateOngoing    State = "ONGOING"
	StateFinished   State = "FINISHED"
	StatePaused     State = "PAUSED"
	StateAbandoned  State = "ABANDONED"
	StateUpcoming   State = "UPCOMING"
	StateRestricted State = "RESTRICTED"
)

// ContentRating classifies a series. The zero value means unset.
type ContentRating string

const (
	ContentRatingUnset      ContentRating = ""
	ContentRatingSafe       ContentRating = "SAFE"
	ContentRatingSuggestive ContentRating = "SUGGESTIVE"
	ContentRatingAdult      ContentRating = "ADULT"
)

// Source identifies the plugin that produced a record.
type Source string

// Tag is a genre label. Title is what users see, Key is what the source's
// filter endpoint understands; many sources use the same string for both.
type Tag struct {
	Title  string `json:"title"`
	Key    string `json:"key"`
	Source Source `json:"source"`
}

// Manga is a series as seen by a source plugin. List operations fill the
// summary fields only; Details additionally sets Description and Chapters.
type Manga struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	AltTitles     []string      `json:"alt_titles"`
	URL           string        `json:"url"`        // relative to the source domain
	PublicURL     string        `json:"public_url"` // absolute, browser friendly
	Rating        float32       `json:"rating"`
	ContentRating ContentRating `json:"content_rating,omitempty"`
	CoverURL      string        `json:"cover_url,omitempty"`
	Tags          []Tag         `json:"tags"`
	State         State         `json:"state,omitempty"`
	Authors       []string      `json:"authors"`
	Source        Source        `json:"source"`
	Description   string        `json:"description,omitempty"`
	Chapters      []Chapter     `json:"chapters,omitempty"`
}

// Chapter is one readable unit of a series.
type Chapter struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title,omitempty"`
	Number     float32   `json:"number"`
	Volume     int       `json:"volume"`
	URL        string    `json:"url"`
	Scanlator  string    `json:"scanlator,omitempty"`
	UploadDate int64     `json:"upload_date"` // epoch millis, 0 when unknown
	Branch     string    `json:"branch,omitempty"`
	Source     Source    `json:"source"`
}

// Page is a single image of a chapter.
type Page struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Preview string    `json:"preview,omitempty"`
	Source  Source    `json:"source"`
}
