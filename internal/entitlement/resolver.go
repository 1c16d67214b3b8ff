package entitlement

import (
	"sync"
	"time"
)

// Snapshot is a remote entitlement payload.
type Snapshot struct {
	UpdatedAt    time.Time     `json:"updatedAt"`
	Entitlements []Entitlement `json:"entitlements"`
}

// Resolver holds the last remote snapshot and lays it over a local
// derivation. The override lasts until the next local commit or sync
// failure.
type Resolver struct {
	mu       sync.RWMutex
	override *Snapshot
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Override installs a remote snapshot on top of the local derivation.
func (r *Resolver) Override(snap Snapshot) {
	r.mu.Lock()
	r.override = &snap
	r.mu.Unlock()
}

// Fallback drops the override so the local derivation applies. It is also
// called on every local commit.
func (r *Resolver) Fallback() {
	r.mu.Lock()
	r.override = nil
	r.mu.Unlock()
}

func (r *Resolver) Overridden() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.override != nil
}

// Current resolves the effective set at now from local, which callers derive
// at the same instant. Remote entries only replace local keys and are
// ignored once their expiry has passed.
func (r *Resolver) Current(local Set, now time.Time) Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(Set, len(local))
	copy(out, local)
	if r.override == nil {
		return out
	}
	for _, remote := range r.override.Entitlements {
		if remote.ExpiresAt != nil && remote.ExpiresAt.Before(now) {
			continue
		}
		for i := range out {
			if out[i].Key != remote.Key {
				continue
			}
			out[i].Value = remote.Value
			out[i].ExpiresAt = remote.ExpiresAt
			out[i].Source = remote.Source
			if out[i].Source == "" {
				out[i].Source = SourceRemote
			}
		}
	}
	return out
}
