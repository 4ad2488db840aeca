package model

import (
	"fmt"
	"regexp"
	"strings"
)

var thirdPartySuffix = regexp.MustCompile(`(?i)-\s*terceiro\s*$`)

// IsThirdParty reports whether a worker name carries the contractor suffix ("- terceiro")
func IsThirdParty(name string) bool {
	return thirdPartySuffix.MatchString(name)
}

// WorkerFilter selects own staff, contractors or both
type WorkerFilter string

const (
	FilterAll        WorkerFilter = "all"
	FilterOwn        WorkerFilter = "own"
	FilterThirdParty WorkerFilter = "third_party"
)

// ParseWorkerFilter accepts the filter names used by the CLI and API.
// An empty string selects everyone.
func ParseWorkerFilter(s string) (WorkerFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "todos":
		return FilterAll, nil
	case "own", "soma":
		return FilterOwn, nil
	case "third_party", "terceiros":
		return FilterThirdParty, nil
	}
	return "", fmt.Errorf("unknown worker filter %q", s)
}

// Keep reports whether a worker with the given name passes the filter
func (f WorkerFilter) Keep(name string) bool {
	switch f {
	case FilterOwn:
		return !IsThirdParty(name)
	case FilterThirdParty:
		return IsThirdParty(name)
	default:
		return true
	}
}
