package events

import (
	"context"
	"time"

	"gold-economy/internal/remote"

	"github.com/rs/zerolog/log"
)

func (e *Emitter) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case j := <-e.dispatchCh:
			metricEventsQueueLen.Set(int64(len(e.dispatchCh)))
			e.deliver(ctx, j)
		}
	}
}

func (e *Emitter) deliver(ctx context.Context, j job) {
	sendCtx, cancel := context.WithTimeout(ctx, e.cfg.SendTimeout)
	defer cancel()

	err := e.sender.LogEvent(sendCtx, remote.Event{
		EventType: string(j.event.Type),
		Metadata:  withTimestamp(j.event),
	})
	if err == nil {
		metricEventsSentTotal.Add(1)
		return
	}
	metricEventsFailedTotal.Add(1)
	if !e.retryOrDrop(j) {
		log.Debug().Err(err).Str("event_type", string(j.event.Type)).Msg("event delivery dropped")
	}
}

func (e *Emitter) retryOrDrop(j job) bool {
	if j.attempt >= e.cfg.RetryMax {
		metricEventsRetryDroppedTotal.Add(1)
		return false
	}
	j.attempt++
	metricEventsRetryTotal.Add(1)
	delay := e.cfg.RetryBase * time.Duration(1<<(j.attempt-1))
	e.retryQ.Enqueue(j, delay)
	return true
}

func withTimestamp(ev Event) map[string]any {
	meta := make(map[string]any, len(ev.Metadata)+2)
	for k, v := range ev.Metadata {
		meta[k] = v
	}
	meta["eventId"] = ev.ID
	meta["createdAt"] = ev.At.UTC().Format(time.RFC3339Nano)
	return meta
}
