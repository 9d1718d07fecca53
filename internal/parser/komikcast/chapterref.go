package komikcast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mangaparsers/internal/parser"
)

// ChapterRef addresses one chapter. Its string form is both the chapter's
// relative URL and the API path of the chapter detail endpoint:
//
//	/series/{slug}/chapters/{index}
type ChapterRef struct {
	Slug  string
	Index string
}

// NewChapterRef renders index the way the chapter feed URLs expect it:
// whole numbers keep a trailing ".0".
func NewChapterRef(slug string, index float32) ChapterRef {
	return ChapterRef{Slug: slug, Index: formatIndex(index)}
}

// ParseChapterRef reads a chapter URL positionally: segment 2 is the slug and
// segment 4 the index, counting the empty segment before the leading slash.
func ParseChapterRef(url string) (ChapterRef, error) {
	segments := strings.Split(url, "/")
	if len(segments) < 5 {
		return ChapterRef{}, fmt.Errorf("%w: chapter url %q", parser.ErrInvalidRef, url)
	}
	return ChapterRef{Slug: segments[2], Index: segments[4]}, nil
}

func (r ChapterRef) String() string {
	return "/series/" + r.Slug + "/chapters/" + r.Index
}

// formatIndex prints f in the site's float notation: plain decimals for
// magnitudes in [1e-3, 1e7), otherwise d.dddEn with no plus sign.
func formatIndex(f float32) string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	if a := math.Abs(v); a == 0 || (a >= 1e-3 && a < 1e7) {
		return withFraction(strconv.FormatFloat(v, 'f', -1, 32))
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 32), "E")
	n, _ := strconv.Atoi(exp)
	return withFraction(mant) + "E" + strconv.Itoa(n)
}

func withFraction(s string) string {
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// slugOf returns the last path segment of a series URL.
func slugOf(seriesURL string) string {
	return seriesURL[strings.LastIndex(seriesURL, "/")+1:]
}
