package feed

import (
	"errors"
	"fmt"
	"strings"
)

const adsSnippet = "(adsbygoogle = window.adsbygoogle || []).push({});"

// entityReplacements are applied one after another, in this order. A single
// strings.Replacer pass would not see text produced by an earlier substitution.
var entityReplacements = [][2]string{
	{"&#039;", "'"},
	{"&#8216;", "'"},
	{"&#8217;", "'"},
	{"&#46;", "."},
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&#8220;", `"`},
}

// Normalize turns a markup fragment into plain text. A nil input stays nil.
func Normalize(text *string) *string {
	if text == nil {
		return nil
	}

	out := StripTags(*text)
	for _, r := range entityReplacements {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	out = strings.ReplaceAll(out, "\n\n", "\n")
	out = strings.ReplaceAll(out, adsSnippet, "")

	return &out
}

// StripTags removes every span that starts with '<' and ends at the first '>'
// outside a single- or double-quoted substring. A '<' that never closes, or
// whose quoted value never terminates, is kept as text.
func StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	i := 0
	for i < len(s) {
		if s[i] != '<' {
			b.WriteByte(s[i])
			i++
			continue
		}

		end := tagEnd(s, i)
		if end < 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		i = end + 1
	}

	return b.String()
}

// tagEnd returns the index of the '>' closing the tag opened at start, or -1.
func tagEnd(s string, start int) int {
	for j := start + 1; j < len(s); j++ {
		switch c := s[j]; c {
		case '>':
			return j
		case '"', '\'':
			closing := strings.IndexByte(s[j+1:], c)
			if closing < 0 {
				return -1
			}
			j += closing + 1
		}
	}
	return -1
}

// NormalizeEntry converts a raw entry into a record. Entries with an empty
// title must be discarded by the caller before reaching this point.
func NormalizeEntry(entry RawEntry) (Record, error) {
	record := Record{
		Title:       entry.Title,
		Link:        optional(entry.Link),
		Description: Normalize(optional(entry.Description)),
		Content:     Normalize(optional(entry.Content)),
		Author:      optional(entry.Author),
		Image:       optional(entry.Image),
	}

	if entry.Published != "" {
		published, err := ResolveDate(entry.Published)
		if err != nil {
			return Record{}, fmt.Errorf("entry %q: %w", entry.Link, err)
		}
		record.Published = &published
	}

	return record, nil
}

// NormalizeEntries drops untitled entries and normalizes the rest in order.
// The first unresolvable date aborts the whole set.
func NormalizeEntries(entries []RawEntry) ([]Record, int, error) {
	records := make([]Record, 0, len(entries))
	untitled := 0

	for _, entry := range entries {
		if entry.Title == "" {
			untitled++
			continue
		}

		record, err := NormalizeEntry(entry)
		if err != nil {
			return nil, untitled, err
		}
		records = append(records, record)
	}

	return records, untitled, nil
}

// IsDateError reports whether err came from date resolution.
func IsDateError(err error) bool {
	return errors.Is(err, ErrUnrecognizedDate)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
