package ids

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ulidEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	ulidEntropyMu sync.Mutex
)

// New returns a monotonic ULID string. IDs created within the same
// millisecond still sort in creation order.
func New() string {
	return NewAt(time.Now())
}

func NewAt(ts time.Time) string {
	ulidEntropyMu.Lock()
	defer ulidEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(ts), ulidEntropy).String()
}

// WithPrefix returns a new id prefixed with kind, e.g. "perk-01J...".
func WithPrefix(kind string, ts time.Time) string {
	return kind + "-" + NewAt(ts)
}
