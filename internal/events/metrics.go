package events

import "expvar"

var (
	metricEventsQueuedTotal       = expvar.NewInt("economy_events_queued_total")
	metricEventsDroppedTotal      = expvar.NewInt("economy_events_dropped_total")
	metricEventsRetryTotal        = expvar.NewInt("economy_events_retry_total")
	metricEventsRetryDroppedTotal = expvar.NewInt("economy_events_retry_dropped_total")
	metricEventsSentTotal         = expvar.NewInt("economy_events_sent_total")
	metricEventsFailedTotal       = expvar.NewInt("economy_events_failed_total")
	metricEventsQueueLen          = expvar.NewInt("economy_events_queue_len")
)
