package feed

import (
	"fmt"
	"log/slog"
	"strings"
)

var filterFields = map[string]bool{
	"title":       true,
	"description": true,
	"content":     true,
	"author":      true,
	"link":        true,
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the records that pass every filter of the source, in order.
func (f *Filterer) Run(records []Record, source Source) []Record {
	if len(source.Filters) == 0 {
		return records
	}

	kept := make([]Record, 0, len(records))
	for _, record := range records {
		if isFiltered, reason := f.applyFilters(record, source.Filters); isFiltered {
			slog.Debug("Record filtered", "feed", source.Name, "link", record.LinkValue(), "reason", reason)
			continue
		}
		kept = append(kept, record)
	}

	return kept
}

func (f *Filterer) applyFilters(record Record, filters []SourceFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(record, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(record Record, field string) string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	switch field {
	case "title":
		return record.Title
	case "description":
		return deref(record.Description)
	case "content":
		return deref(record.Content)
	case "author":
		return deref(record.Author)
	case "link":
		return deref(record.Link)
	default:
		return ""
	}
}
