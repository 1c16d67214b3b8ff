package httptransport

import "expvar"

var (
	metricRejectionsTotal = expvar.NewInt("http_rejections_total")

	metricStreamConnectionsTotal  = expvar.NewInt("economy_stream_connections_total")
	metricStreamConnectionsActive = expvar.NewInt("economy_stream_connections_active")
)
