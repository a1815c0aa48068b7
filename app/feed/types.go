package feed

import (
	"time"
)

// Feed processing types

// RawEntry is one syndicated item as received from a source. Nothing in it is trusted.
type RawEntry struct {
	Title       string
	Link        string
	Description string
	Author      string
	GUID        string
	Image       string
	Published   string // Raw timestamp text, empty when the entry had none
	Content     string
}

// Record is a normalized entry ready to be persisted.
type Record struct {
	Title       string
	Link        *string
	Description *string
	Content     *string
	Author      *string
	Image       *string
	Published   *time.Time
}

// LinkValue returns the record link or an empty string.
func (r Record) LinkValue() string {
	if r.Link == nil {
		return ""
	}
	return *r.Link
}

// Source configuration types

type Source struct {
	Name    string         `yaml:"name"`
	URL     string         `yaml:"url"`
	Filters []SourceFilter `yaml:"filters"`
}

type SourceFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

type sourceFile struct {
	Feeds []Source `yaml:"feeds"`
}
