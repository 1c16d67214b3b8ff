package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gold-economy/internal/economy"
	"gold-economy/internal/ledger"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_operations_total",
		Help: "Economy operations by name and result.",
	}, []string{"op", "result"})

	goldEarnedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_gold_earned_total",
		Help: "Gold credited, by ledger reason.",
	}, []string{"reason"})

	goldSpentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_gold_spent_total",
		Help: "Gold debited, by ledger reason.",
	}, []string{"reason"})

	syncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_sync_total",
		Help: "Remote reconciliations by result.",
	}, []string{"result"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "economy_sync_duration_seconds",
		Help:    "Time spent fetching and merging remote snapshots.",
		Buckets: prometheus.DefBuckets,
	})

	flushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_flush_total",
		Help: "State flushes to the store by result.",
	}, []string{"result"})
)

func observeOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = string(economy.KindOf(err))
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func observeTx(tx ledger.Transaction) {
	switch tx.Kind {
	case ledger.KindEarn:
		goldEarnedTotal.WithLabelValues(string(tx.Reason)).Add(float64(tx.Amount))
	case ledger.KindSpend:
		goldSpentTotal.WithLabelValues(string(tx.Reason)).Add(float64(tx.Amount))
	}
}
