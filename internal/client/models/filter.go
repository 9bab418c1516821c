package models

import (
	"fmt"
	"strings"
)

// Filter restricts a list request by the selected flag.
type Filter int

const (
	FilterAll Filter = iota
	FilterSelected
	FilterUnselected
)

// Query returns the value of the "selected" query parameter and whether the
// parameter should be sent at all.
func (f Filter) Query() (string, bool) {
	switch f {
	case FilterSelected:
		return "true", true
	case FilterUnselected:
		return "false", true
	default:
		return "", false
	}
}

func (f Filter) String() string {
	switch f {
	case FilterSelected:
		return "selected"
	case FilterUnselected:
		return "unselected"
	default:
		return "all"
	}
}

// ParseFilter accepts both the display names and the raw query values.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "unset":
		return FilterAll, nil
	case "selected", "true":
		return FilterSelected, nil
	case "unselected", "not-selected", "false":
		return FilterUnselected, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q", s)
	}
}
