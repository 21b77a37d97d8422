// Package handler exposes the HTTP layer. Handlers depend only on the
// store contracts in the repository package so tests can wire them to an
// in-memory fake.
package handler

import (
	"errors"
	"strconv"
)

// errInvalidID marks a path or payload identifier that does not parse.
var errInvalidID = errors.New("invalid id")

// parseID converts an opaque string identity from the HTTP boundary into
// the numeric form the stores use. Identities are positive integers; any
// other shape is malformed rather than merely unknown.
func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}
