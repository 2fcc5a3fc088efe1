package database

import "errors"

// ErrURLNotFound is returned when no resolvable record exists for a slug.
// A missing record and an inactive or expired one are deliberately
// indistinguishable, so callers never learn whether a slug ever existed.
var ErrURLNotFound = errors.New("url not found")
