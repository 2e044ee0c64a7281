package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Calls to third-party services by outcome",
	},
	[]string{"service", "outcome"},
)

func observeUpstream(service string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	upstreamRequestsTotal.WithLabelValues(service, outcome).Inc()
}
