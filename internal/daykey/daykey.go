// Package daykey centralises calendar-day keys used by per-day counters.
//
// Counters pick a Zone explicitly so local and UTC boundaries are never mixed
// by accident. Keys are "2006-01-02" strings.
package daykey

import (
	"fmt"
	"time"
)

type Zone int

const (
	Local Zone = iota
	UTC
)

func (z Zone) String() string {
	switch z {
	case UTC:
		return "utc"
	default:
		return "local"
	}
}

const layout = "2006-01-02"

type Service struct {
	local *time.Location
}

// New returns a Service whose Local zone is loc. A nil loc means time.Local.
func New(loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{local: loc}
}

// FromName resolves an IANA zone name ("" or "Local" selects time.Local).
func FromName(name string) (*Service, error) {
	if name == "" || name == "Local" {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", name, err)
	}
	return New(loc), nil
}

func (s *Service) Location(z Zone) *time.Location {
	if z == UTC {
		return time.UTC
	}
	return s.local
}

func (s *Service) Key(t time.Time, z Zone) string {
	return t.In(s.Location(z)).Format(layout)
}

func (s *Service) Today(now time.Time, z Zone) string {
	return s.Key(now, z)
}

// IsSameDay reports whether key names the current day in zone z.
// An empty key is never the same day.
func (s *Service) IsSameDay(key string, now time.Time, z Zone) bool {
	return key != "" && key == s.Today(now, z)
}
