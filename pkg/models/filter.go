package models

import (
	"fmt"
	"strings"
)

// SortOrder is the listing order requested from a source.
type SortOrder string

const (
	SortUpdated          SortOrder = "UPDATED"
	SortUpdatedAsc       SortOrder = "UPDATED_ASC"
	SortPopularity       SortOrder = "POPULARITY"
	SortPopularityAsc    SortOrder = "POPULARITY_ASC"
	SortRating           SortOrder = "RATING"
	SortRatingAsc        SortOrder = "RATING_ASC"
	SortNewest           SortOrder = "NEWEST"
	SortNewestAsc        SortOrder = "NEWEST_ASC"
	SortAlphabetical     SortOrder = "ALPHABETICAL"
	SortAlphabeticalDesc SortOrder = "ALPHABETICAL_DESC"
	SortRelevance        SortOrder = "RELEVANCE"
)

var allSortOrders = []SortOrder{
	SortUpdated, SortUpdatedAsc, SortPopularity, SortPopularityAsc, SortRating, SortRatingAsc,
	SortNewest, SortNewestAsc, SortAlphabetical, SortAlphabeticalDesc, SortRelevance,
}

// ParseSortOrder accepts the upper-case constant names, case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	v := SortOrder(strings.ToUpper(strings.TrimSpace(s)))
	for _, o := range allSortOrders {
		if o == v {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// ContentType is the kind of publication a source hosts.
type ContentType string

const (
	TypeManga     ContentType = "MANGA"
	TypeHentai    ContentType = "HENTAI"
	TypeComics    ContentType = "COMICS"
	TypeManhwa    ContentType = "MANHWA"
	TypeManhua    ContentType = "MANHUA"
	TypeNovel     ContentType = "NOVEL"
	TypeOneShot   ContentType = "ONE_SHOT"
	TypeDoujinshi ContentType = "DOUJINSHI"
	TypeOther     ContentType = "OTHER"
)

var allContentTypes = []ContentType{
	TypeManga, TypeHentai, TypeComics, TypeManhwa, TypeManhua, TypeNovel, TypeOneShot, TypeDoujinshi, TypeOther,
}

func ParseContentType(s string) (ContentType, error) {
	v := ContentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range allContentTypes {
		if t == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

var allStates = []State{
	StateOngoing, StateFinished, StatePaused, StateAbandoned, StateUpcoming, StateRestricted,
}

func ParseState(s string) (State, error) {
	v := State(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range allStates {
		if st == v {
			return st, nil
		}
	}
	return StateUnknown, fmt.Errorf("unknown state %q", s)
}

// ListFilter is the abstract query a caller hands to a source's List.
// An empty filter asks for the source's default listing.
type ListFilter struct {
	Query       string        `json:"query,omitempty"`
	Tags        []Tag         `json:"tags,omitempty"`
	TagsExclude []Tag         `json:"tags_exclude,omitempty"`
	States      []State       `json:"states,omitempty"`
	Types       []ContentType `json:"types,omitempty"`
}

func (f ListFilter) IsEmpty() bool {
	return f.Query == "" && len(f.Tags) == 0 && len(f.TagsExclude) == 0 &&
		len(f.States) == 0 && len(f.Types) == 0
}

// FilterCapabilities declares which parts of ListFilter a source honours.
type FilterCapabilities struct {
	SearchSupported        bool `json:"search_supported"`
	MultipleTagsSupported  bool `json:"multiple_tags_supported"`
	TagsExclusionSupported bool `json:"tags_exclusion_supported"`
}

// FilterOptions is the vocabulary a source accepts in ListFilter.
type FilterOptions struct {
	Tags   []Tag         `json:"tags"`
	States []State       `json:"states"`
	Types  []ContentType `json:"types"`
}
