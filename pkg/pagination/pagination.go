// Package pagination implements keyset paging over (created_at, id) for the
// marketplace listings. Cursors are opaque to API clients.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size when the caller does not ask for one.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single page may request.
	MaxLimit = 100

	cursorSep = ":"
)

// Params holds the page inputs as they arrive from the query string.
type Params struct {
	Limit  int
	Cursor string
}

// PageSize clamps the requested limit into the allowed range.
func (p Params) PageSize() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// FetchSize is PageSize plus one extra row used to detect a following page.
func (p Params) FetchSize() int {
	return p.PageSize() + 1
}

// After decodes the incoming cursor. A nil result means the page starts from
// the newest row.
func (p Params) After() (*Cursor, error) {
	return Decode(p.Cursor)
}

// Cursor pins the last row of the previous page so the next query can resume
// strictly after it.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode renders the cursor as unix-nanos plus row id, base64url without
// padding so it survives query strings untouched.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UTC().UnixNano(), 10) + cursorSep + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses an encoded cursor. Empty input yields a nil cursor, not an
// error, so callers can pass the query parameter through unchecked.
func Decode(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	nanos, idPart, found := strings.Cut(string(raw), cursorSep)
	if !found {
		return nil, fmt.Errorf("malformed cursor")
	}

	ts, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor id: %w", err)
	}
	return &Cursor{CreatedAt: time.Unix(0, ts).UTC(), ID: id}, nil
}
