package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateExtractor parses the leading date token of a history line, that is the
// text before the first colon.
type DateExtractor struct {
	layout string
	loc    *time.Location
}

// NewDateExtractor creates a new date extractor. A nil location means UTC.
func NewDateExtractor(layout string, loc *time.Location) *DateExtractor {
	if loc == nil {
		loc = time.UTC
	}
	return &DateExtractor{
		layout: layout,
		loc:    loc,
	}
}

// Extract attempts to extract and parse the date from a line.
// Returns zero time and an error if the line has no date or parsing fails.
func (e *DateExtractor) Extract(line string) (time.Time, error) {
	token, _, _ := strings.Cut(line, ":")
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, errors.New("line has no date token")
	}

	ts, err := time.ParseInLocation(e.layout, token, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", token, err)
	}

	return ts, nil
}
