package parser

import (
	"errors"
	"testing"

	"mangaparsers/pkg/models"
	"mangaparsers/pkg/utils"
)

func chapterAt(url string) *models.Chapter {
	return &models.Chapter{ID: utils.GenerateUID("TEST", url), URL: url}
}

func TestMapChaptersReversed(t *testing.T) {
	feed := []string{"/c/3", "/c/2", "/c/1"}
	got, err := MapChapters(len(feed), true, func(_, src int) (*models.Chapter, error) {
		return chapterAt(feed[src]), nil
	})
	if err != nil {
		t.Fatalf("MapChapters: %v", err)
	}
	want := []string{"/c/1", "/c/2", "/c/3"}
	if len(got) != len(want) {
		t.Fatalf("got %d chapters, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].URL != want[i] {
			t.Errorf("chapter %d = %s, want %s", i, got[i].URL, want[i])
		}
	}
}

func TestMapChaptersDropsDuplicatesAndNil(t *testing.T) {
	feed := []string{"/c/1", "", "/c/1", "/c/2"}
	got, err := MapChapters(len(feed), false, func(_, src int) (*models.Chapter, error) {
		if feed[src] == "" {
			return nil, nil
		}
		return chapterAt(feed[src]), nil
	})
	if err != nil {
		t.Fatalf("MapChapters: %v", err)
	}
	if len(got) != 2 || got[0].URL != "/c/1" || got[1].URL != "/c/2" {
		t.Fatalf("unexpected chapters: %+v", got)
	}
}

func TestMapChaptersError(t *testing.T) {
	boom := errors.New("boom")
	_, err := MapChapters(2, false, func(i, _ int) (*models.Chapter, error) {
		if i == 1 {
			return nil, boom
		}
		return chapterAt("/c/1"), nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
