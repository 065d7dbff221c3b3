// Package metrics exposes Prometheus collectors for backend calls and logins.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inventario"

// Recorder is the metrics sink used by the gateway and the session store.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
	sessions prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend API calls by method, route and status class.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Browser sessions held in memory.",
		}),
	}
	reg.MustRegister(r.requests, r.duration, r.logins, r.sessions)
	return r
}

// Nop returns a Recorder bound to a throwaway registry.
func Nop() *Recorder {
	return New(prometheus.NewRegistry())
}

// ObserveRequest records one backend call. status 0 means the call never
// got a response.
func (r *Recorder) ObserveRequest(method, route string, status int, took time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, StatusClass(status)).Inc()
	r.duration.WithLabelValues(method, route).Observe(took.Seconds())
}

// Login results
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginFailed  = "failed"
)

func (r *Recorder) ObserveLogin(result string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(result).Inc()
}

func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}

// StatusClass maps 404 to "4xx"; 0 becomes "error".
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
