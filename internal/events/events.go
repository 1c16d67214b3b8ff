// Package events delivers economy events to the remote event log. Delivery
// is fire-and-forget: failures are counted and logged, never returned.
package events

import (
	"context"
	"sync"
	"time"

	"gold-economy/internal/ids"
	"gold-economy/internal/remote"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	GoldEarned          Type = "GOLD_EARNED"
	GoldSpent           Type = "GOLD_SPENT"
	PerkPurchased       Type = "PERK_PURCHASED"
	RewardClaimed       Type = "REWARD_CLAIMED"
	GameMatchStarted    Type = "GAME_MATCH_STARTED"
	GameMatchFinished   Type = "GAME_MATCH_FINISHED"
	RewardTicketCreated Type = "REWARD_TICKET_CREATED"
)

const recentSize = 50

type Event struct {
	ID       string         `json:"id"`
	Type     Type           `json:"eventType"`
	At       time.Time      `json:"createdAt"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Sender pushes one event to the backend.
type Sender interface {
	LogEvent(ctx context.Context, ev remote.Event) error
}

type Config struct {
	Enabled     bool
	Buffer      int
	Workers     int
	RetryMax    int
	RetryBase   time.Duration
	SendTimeout time.Duration
}

type job struct {
	event   Event
	attempt int
}

type Emitter struct {
	cfg    Config
	sender Sender

	dispatchCh chan job
	retryQ     *retryQueue
	done       chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu     sync.Mutex
	recent []Event
}

func NewEmitter(cfg Config, sender Sender) *Emitter {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	done := make(chan struct{})
	ch := make(chan job, cfg.Buffer)
	return &Emitter{
		cfg:        cfg,
		sender:     sender,
		dispatchCh: ch,
		retryQ:     newRetryQueue(ch, done),
		done:       done,
	}
}

func (e *Emitter) delivering() bool {
	return e.cfg.Enabled && e.sender != nil
}

// Start launches the delivery workers. It is a no-op when delivery is off.
func (e *Emitter) Start(ctx context.Context) {
	if !e.delivering() {
		return
	}
	e.startOnce.Do(func() {
		for i := 0; i < e.cfg.Workers; i++ {
			e.wg.Add(1)
			go func() {
				defer e.wg.Done()
				e.worker(ctx)
			}()
		}
	})
}

// Stop halts the workers. Queued events are dropped.
func (e *Emitter) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
	})
	e.wg.Wait()
}

// Emit records ev in the recent ring and queues it for delivery without
// blocking. A full queue drops the event.
func (e *Emitter) Emit(t Type, at time.Time, metadata map[string]any) Event {
	ev := Event{ID: ids.WithPrefix("evt", at), Type: t, At: at, Metadata: metadata}
	e.remember(ev)
	if !e.delivering() {
		return ev
	}
	select {
	case <-e.done:
		metricEventsDroppedTotal.Add(1)
	case e.dispatchCh <- job{event: ev}:
		metricEventsQueuedTotal.Add(1)
		metricEventsQueueLen.Set(int64(len(e.dispatchCh)))
	default:
		metricEventsDroppedTotal.Add(1)
		log.Warn().Str("event_type", string(t)).Msg("event queue full, dropping")
	}
	return ev
}

// Recent returns up to the last 50 events, newest first.
func (e *Emitter) Recent() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Event, len(e.recent))
	copy(out, e.recent)
	return out
}

func (e *Emitter) remember(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recent = append([]Event{ev}, e.recent...)
	if len(e.recent) > recentSize {
		e.recent = e.recent[:recentSize]
	}
}
