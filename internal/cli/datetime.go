package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"dayplan-cli/internal/model"
)

var reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDate validates a YYYY-MM-DD calendar date.
func parseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !reDateOnly.MatchString(s) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}

// parseWhen parses:
// - YYYY-MM-DD (date-only)
// - YYYY-MM-DD HH:MM (date + start time)
//
// It returns a DateTime where Time is nil for date-only inputs.
func parseWhen(s string) (*model.DateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty datetime")
	}
	if reDateOnly.MatchString(s) {
		d, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		return &model.DateTime{Date: d, Time: nil}, nil
	}
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid datetime %q (expected YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
	}
	d, err := parseDate(parts[0])
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse("15:04", parts[1]); err != nil {
		return nil, fmt.Errorf("invalid datetime %q (expected YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
	}
	hm := parts[1]
	return &model.DateTime{Date: d, Time: &hm}, nil
}
