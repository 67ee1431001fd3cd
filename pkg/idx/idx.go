// Package idx generates lexicographically sortable unique identifiers for
// request correlation. IDs are ULIDs: 26-character Crockford base32 strings
// that embed a millisecond timestamp, so logs sorted by request ID are also
// sorted by time.
package idx

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a fresh ULID based on the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID anchored at the given time.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// Parse validates an ID string and returns its embedded timestamp.
func Parse(id string) (time.Time, error) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
