package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"skinvault/internal/domain/service/trade"
)

const metricsNamespace = "skinvault"

//nolint:gochecknoglobals
var (
	skinMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "skin_mutations_total",
		Help:      "Committed skin mutations by operation.",
	}, []string{"operation"})

	tradeEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "trade_evaluations_total",
		Help:      "Trade evaluations by the path that produced them.",
	}, []string{"source"})

	proxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "proxy_requests_total",
		Help:      "Price proxy requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
)

// ObserveTradeEvaluation counts evaluations per source. It is meant to be
// passed to trade.Evaluator.WithObserver.
func ObserveTradeEvaluation(source trade.Source) {
	tradeEvaluations.WithLabelValues(string(source)).Inc()
}

func observeProxy(endpoint string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	proxyRequests.WithLabelValues(endpoint, outcome).Inc()
}
