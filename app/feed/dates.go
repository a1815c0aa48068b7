package feed

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnrecognizedDate = errors.New("unrecognized date format")

const naiveLayout = "2006-01-02 15:04:05"

// rfc822Layouts cover "%a, %d %b %Y %H:%M:%S %z" with and without a padded day.
var rfc822Layouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnrecognizedDate, e.Value)
}

func (e *DateError) Unwrap() error {
	return ErrUnrecognizedDate
}

// ResolveDate parses a published timestamp. The zone-less "YYYY-MM-DD HH:MM:SS"
// form is tried first against the leading characters of raw and is read in
// time.Local; the RFC 822 form with a numeric offset is tried second.
func ResolveDate(raw string) (time.Time, error) {
	if len(raw) >= len(naiveLayout) {
		if t, err := time.ParseInLocation(naiveLayout, raw[:len(naiveLayout)], time.Local); err == nil {
			return t, nil
		}
	}

	for _, layout := range rfc822Layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &DateError{Value: raw}
}
