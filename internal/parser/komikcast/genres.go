package komikcast

import "mangaparsers/pkg/models"

// The genre endpoint is not public; this list mirrors the site's filter form.
var genres = []string{
	"4-Koma", "Adventure", "Cooking", "Game", "Gore", "Harem", "Historical", "Horror", "Isekai", "Josei", "Magic",
	"Martial Arts", "Mature", "Mecha", "Medical", "Military", "Music", "Mystery", "One-Shot", "Police",
	"Psychological", "Reincarnation", "Romance", "School", "School Life", "Sci-Fi", "Seinen", "Shoujo", "Shoujo Ai",
	"Action", "Comedy", "Demons", "Drama", "Ecchi", "Fantasy", "Gender Bender", "Shounen", "Shounen Ai",
	"Slice of Life", "Sports", "Super Power", "Supernatural", "Thriller", "Tragedy", "Vampire", "Webtoons", "Yuri",
}

func genreTags() []models.Tag {
	tags := make([]models.Tag, 0, len(genres))
	for _, g := range genres {
		tags = append(tags, newTag(g))
	}
	return tags
}

func newTag(name string) models.Tag {
	return models.Tag{Title: name, Key: name, Source: SourceName}
}
