package feed

import (
	"testing"
)

func TestFilterer_Run_NoFilters(t *testing.T) {
	filterer := NewFilterer()

	records := []Record{
		{Title: "Test Item 1", Description: strPtr("Test description")},
		{Title: "Test Item 2", Description: strPtr("Another description")},
	}

	result := filterer.Run(records, Source{Name: "test"})

	if len(result) != 2 {
		t.Errorf("Expected 2 records, got %d", len(result))
	}
}

func TestFilterer_Run_TitleIncludeFilter(t *testing.T) {
	filterer := NewFilterer()

	records := []Record{
		{Title: "Breaking News: Important Update"},
		{Title: "Sports Update"},
		{Title: "Weather Report"},
	}

	source := Source{
		Name: "test",
		Filters: []SourceFilter{
			{Field: "title", Includes: []string{"news", "update"}},
		},
	}

	result := filterer.Run(records, source)

	if !equalStrings(titles(result), []string{"Breaking News: Important Update", "Sports Update"}) {
		t.Errorf("Expected weather report to be filtered, got %v", titles(result))
	}
}

func TestFilterer_Run_ExcludeFilter(t *testing.T) {
	filterer := NewFilterer()

	records := []Record{
		{Title: "Sponsored: Buy now", Description: strPtr("promo")},
		{Title: "Real story", Description: strPtr("Reporting")},
	}

	source := Source{
		Filters: []SourceFilter{
			{Field: "title", Excludes: []string{"SPONSORED"}},
		},
	}

	result := filterer.Run(records, source)

	if !equalStrings(titles(result), []string{"Real story"}) {
		t.Errorf("Expected sponsored record to be filtered, got %v", titles(result))
	}
}

func TestFilterer_ApplyFilters_NilFields(t *testing.T) {
	filterer := NewFilterer()

	isFiltered, reason := filterer.applyFilters(Record{Title: "No description"}, []SourceFilter{
		{Field: "description", Includes: []string{"anything"}},
	})

	if !isFiltered {
		t.Error("Expected record without description to fail include filter")
	}
	if reason == "" {
		t.Error("Expected a filter reason")
	}
}

func TestFilterer_GetFieldValue(t *testing.T) {
	filterer := NewFilterer()

	record := Record{
		Title:       "Title",
		Link:        strPtr("https://example.com"),
		Description: strPtr("Description"),
		Content:     strPtr("Content"),
		Author:      strPtr("Author"),
	}

	tests := map[string]string{
		"title":       "Title",
		"link":        "https://example.com",
		"description": "Description",
		"content":     "Content",
		"author":      "Author",
		"unknown":     "",
	}

	for field, expected := range tests {
		if got := filterer.getFieldValue(record, field); got != expected {
			t.Errorf("Field %s: expected '%s', got '%s'", field, expected, got)
		}
	}
}
