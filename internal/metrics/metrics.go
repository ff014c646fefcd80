package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github/chapool/go-sendtx/internal/config"
)

const namespace = "sendtx"

// Service owns a private registry with the collectors of a single run.
// A nil *Service is valid and records nothing.
type Service struct {
	Registry *prometheus.Registry

	textfile string

	rpcDuration   *prometheus.HistogramVec
	rpcErrors     *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	watchOutcomes *prometheus.CounterVec
}

func New(cfg config.Sender) (*Service, error) {
	reg := prometheus.NewRegistry()

	s := &Service{
		Registry: reg,
		textfile: cfg.Metrics.Textfile,
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "Duration of JSON-RPC requests by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		rpcErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_request_errors_total",
			Help:      "Failed JSON-RPC requests by method.",
		}, []string{"method"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission attempts by path and result.",
		}, []string{"path", "result"}),
		watchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_outcomes_total",
			Help:      "Confirmation watch outcomes.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{s.rpcDuration, s.rpcErrors, s.submissions, s.watchOutcomes} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return s, nil
}

// ObserveRPC records the duration and result of one JSON-RPC call
func (s *Service) ObserveRPC(method string, took time.Duration, err error) {
	if s == nil {
		return
	}

	s.rpcDuration.WithLabelValues(method).Observe(took.Seconds())
	if err != nil {
		s.rpcErrors.WithLabelValues(method).Inc()
	}
}

// ObserveSubmission records a submission attempt on path ("broadcast" or "bundle")
func (s *Service) ObserveSubmission(path string, err error) {
	if s == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.submissions.WithLabelValues(path, result).Inc()
}

// ObserveWatch records a confirmation watch outcome ("confirmed", "timed_out", "failed")
func (s *Service) ObserveWatch(outcome string) {
	if s == nil {
		return
	}

	s.watchOutcomes.WithLabelValues(outcome).Inc()
}

// Flush writes the registry to the configured node exporter textfile, if any.
func (s *Service) Flush() error {
	if s == nil || s.textfile == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(s.textfile, s.Registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", s.textfile)
	}

	log.Debug().Str("path", s.textfile).Msg("Metrics written")
	return nil
}
