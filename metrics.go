package main

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	framesDecodedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goblesense_frames_decoded_total",
		Help: "Broadcast frames decoded successfully, by sensor kind.",
	}, []string{"kind"})

	decodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goblesense_decode_failures_total",
		Help: "Frames dropped because their payload failed to decode.",
	})

	unknownKeysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goblesense_unknown_vendor_keys_total",
		Help: "Frames skipped because no decoder matches their vendor key.",
	})

	documentsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goblesense_documents_emitted_total",
		Help: "Output documents written to the sink.",
	})
)

// serveMetrics exposes the Prometheus endpoint in the background. The
// sensor loop does not depend on it.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Errorf("metrics listener on %s: %v", addr, err)
		}
	}()
}
