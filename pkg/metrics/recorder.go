package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/appkit/core"
)

const namespace = "appkit"

// Recorder collects appkit metrics into a Prometheus registry.
type Recorder struct {
	gatherer prometheus.Gatherer

	builds       prometheus.Counter
	handled      *prometheus.CounterVec
	serverErrors *prometheus.CounterVec
	inFlight     prometheus.Gauge
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

var _ core.Recorder = (*Recorder)(nil)

// NewRecorder registers the collectors with reg. When reg is also a
// prometheus.Gatherer, as *prometheus.Registry is, Endpoint exposes it.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &Recorder{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_builds_total",
			Help:      "Number of compiled request pipelines.",
		}),
		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exceptions_handled_total",
			Help:      "Failures turned into responses by a registered handler.",
		}, []string{"key"}),
		serverErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "server_errors_total",
			Help:      "Failures that reached the outermost boundary.",
		}, []string{"responded"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served, by method and status.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{rec.builds, rec.handled, rec.serverErrors, rec.inFlight, rec.requests, rec.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrRegister, err)
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		rec.gatherer = g
	} else {
		rec.gatherer = prometheus.DefaultGatherer
	}
	return rec, nil
}

// MustNewRecorder is like NewRecorder but panics on registration errors.
func MustNewRecorder(reg prometheus.Registerer) *Recorder {
	rec, err := NewRecorder(reg)
	if err != nil {
		panic(err)
	}
	return rec
}

func (r *Recorder) PipelineBuilt() { r.builds.Inc() }

func (r *Recorder) ExceptionHandled(key string) { r.handled.WithLabelValues(key).Inc() }

func (r *Recorder) ServerError(responded bool) {
	r.serverErrors.WithLabelValues(strconv.FormatBool(responded)).Inc()
}

// Instrument measures requests passing through next. Failures that leave
// next without a response are counted as 500, which is what the outermost
// boundary answers for them.
func (r *Recorder) Instrument(next core.App) core.App {
	return core.AppFunc(func(w http.ResponseWriter, req *http.Request) error {
		r.inFlight.Inc()
		defer r.inFlight.Dec()

		tw := core.TrackResponse(w)
		start := time.Now()
		err := next.Serve(tw, req)

		status := tw.Status()
		switch {
		case status != 0:
		case err != nil:
			status = http.StatusInternalServerError
		default:
			status = http.StatusOK
		}
		r.requests.WithLabelValues(req.Method, strconv.Itoa(status)).Inc()
		r.duration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
		return err
	})
}

// Endpoint serves the registry in the Prometheus exposition format.
func (r *Recorder) Endpoint() func(*http.Request) (core.Response, error) {
	h := promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
	return func(*http.Request) (core.Response, error) {
		return core.ResponseFunc(func(w http.ResponseWriter, req *http.Request) error {
			h.ServeHTTP(w, req)
			return nil
		}), nil
	}
}
