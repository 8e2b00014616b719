package ui

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted by the date fields of the forms. A bare date means
// midnight in the chosen zone.
const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// ParseDateTime parses s in loc using DateTimeLayout or DateLayout.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

// ParseOptionalDateTime is ParseDateTime for optional fields: an empty
// string yields nil.
func ParseOptionalDateTime(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDateTime(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDateTime renders t in loc for a form field. A nil time renders "".
func FormatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format(DateTimeLayout)
	}
	return t.Format(DateTimeLayout)
}

// ValidateOptionalDateTime is a huh field validator for optional dates.
func ValidateOptionalDateTime(s string) error {
	_, err := ParseOptionalDateTime(s, time.UTC)
	return err
}

// ValidateDateTime is a huh field validator for required dates.
func ValidateDateTime(s string) error {
	_, err := ParseDateTime(s, time.UTC)
	return err
}

// FormWidth clamps the terminal width to a comfortable form width.
func FormWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// FormHeight clamps the terminal height for a form.
func FormHeight(height int) int {
	h := height - 4
	if h < 10 {
		h = 10
	}
	return h
}
