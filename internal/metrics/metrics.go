// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beonbikes"

// HTTPRequests counts requests by route template, method and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by route, method and status.",
}, []string{"route", "method", "code"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method"})

// BookingsCreated counts bookings by source (web or admin).
var BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rentals",
	Name:      "bookings_created_total",
	Help:      "Rental bookings created.",
}, []string{"source"})

var WaitlistRegistrations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rentals",
	Name:      "waitlist_registrations_total",
	Help:      "Interest registrations added to the waiting list.",
})

var PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rentals",
	Name:      "payments_recorded_total",
	Help:      "Payments recorded against bookings.",
})

var PaymentCents = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "rentals",
	Name:      "payment_cents_total",
	Help:      "Sum of recorded payment amounts in cents.",
})

// EmailsSent counts delivery attempts by message kind and result ("sent" or "failed").
var EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "email",
	Name:      "messages_total",
	Help:      "Transactional emails by kind and result.",
}, []string{"kind", "result"})

var JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "jobs",
	Name:      "runs_total",
	Help:      "Scheduled job runs by job and result.",
}, []string{"job", "result"})

func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency keyed by the mux route template,
// so /api/admin/bookings/{id} is one series rather than one per booking.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
