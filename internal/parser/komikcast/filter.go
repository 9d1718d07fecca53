package komikcast

import (
	"net/url"
	"strconv"

	"mangaparsers/pkg/models"
)

type sortParams struct {
	sort  string
	order string
}

var sortTable = map[models.SortOrder]sortParams{
	models.SortPopularity: {"popularity", "desc"},
	models.SortNewest:     {"latest", "desc"},
	models.SortRating:     {"rating", "desc"},
	models.SortUpdated:    {"latest", "desc"},
}

var defaultSort = sortParams{"latest", "desc"}

var stateParams = map[models.State]string{
	models.StateOngoing:   "ongoing",
	models.StateFinished:  "completed",
	models.StatePaused:    "hiatus",
	models.StateAbandoned: "cancelled",
}

var formatParams = map[models.ContentType]string{
	models.TypeManga:  "manga",
	models.TypeManhwa: "manhwa",
	models.TypeManhua: "manhua",
}

// listURL translates a listing request into the /series query.
//
// The search text is pasted into the filter predicate as is. Quotes or
// commas in it change the predicate; the API has no escape syntax we know of.
// Unmapped states and types still add an empty parameter.
func (p *Parser) listURL(page int, order models.SortOrder, filter models.ListFilter) string {
	q := url.Values{}
	q.Add("includeMeta", "true")
	q.Add("take", strconv.Itoa(pageSize))
	q.Add("page", strconv.Itoa(page))

	sp, ok := sortTable[order]
	if !ok {
		sp = defaultSort
	}
	q.Add("sort", sp.sort)
	q.Add("sortOrder", sp.order)

	if filter.Query != "" {
		q.Add("filter", `title=like="`+filter.Query+`",nativeTitle=like="`+filter.Query+`"`)
	}
	for _, st := range filter.States {
		q.Add("status", stateParams[st])
	}
	for _, t := range filter.Types {
		q.Add("format", formatParams[t])
	}
	for _, tag := range filter.Tags {
		q.Add("genreIds", tag.Key)
	}
	for _, tag := range filter.TagsExclude {
		q.Add("genreIds", "-"+tag.Key)
	}

	return p.apiURL + "/series?" + q.Encode()
}
