package util

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Used to tag operational runs (for
// example a migration pass) with a sortable unique identifier in logs.
// A fresh entropy source per call is fine at the call rates involved here;
// use ulid.Monotonic with a shared source if that ever changes.
func NewULID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
