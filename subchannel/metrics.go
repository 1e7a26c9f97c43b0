package subchannel

import (
	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "subchannel"

// Metrics holds the prometheus collectors of the sub-channel manager.
type Metrics struct {
	// messages counts the messages that advanced a session.
	messages *prometheus.CounterVec

	// violations counts the messages refused because of the session
	// state.
	violations *prometheus.CounterVec

	// rejected counts the messages refused by the channel handler or the
	// secret reuse check.
	rejected *prometheus.CounterVec

	// decodeFailures counts incoming payloads that could not be decoded.
	decodeFailures prometheus.Counter

	// outcomes counts the sessions reaching a final or notable outcome.
	outcomes *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with the registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_total",
			Help:      "Messages that advanced a session.",
		}, []string{"direction", "type"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sequence_violations_total",
			Help:      "Messages not valid for the session state.",
		}, []string{"direction", "type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_total",
			Help:      "Messages refused by validation.",
		}, []string{"direction", "type"}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decode_failures_total",
			Help:      "Incoming payloads that failed to decode.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "outcomes_total",
			Help:      "Sessions reaching an outcome.",
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{
		m.messages, m.violations, m.rejected, m.decodeFailures,
		m.outcomes,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// observeTransition records a successful transition.
func (m *Metrics) observeTransition(t *Transition) {
	if m == nil {
		return
	}

	m.messages.WithLabelValues(
		t.Direction.String(), t.MsgType.String(),
	).Inc()

	switch {
	case t.To == Finalized && t.Outcome.IsNone():
		m.outcomes.WithLabelValues(Finalized.String()).Inc()

	case t.To == CloseFinalized:
		m.outcomes.WithLabelValues(CloseFinalized.String()).Inc()
	}

	t.Outcome.WhenSome(func(s State) {
		m.outcomes.WithLabelValues(s.String()).Inc()
	})
}

// observeViolation records a message refused because of the session state.
func (m *Metrics) observeViolation(dir Direction,
	msgType dlcwire.MessageType) {

	if m == nil {
		return
	}

	m.violations.WithLabelValues(dir.String(), msgType.String()).Inc()
}

// observeRejection records a message refused by validation.
func (m *Metrics) observeRejection(dir Direction,
	msgType dlcwire.MessageType) {

	if m == nil {
		return
	}

	m.rejected.WithLabelValues(dir.String(), msgType.String()).Inc()
}

// observeDecodeFailure records an undecodable incoming payload.
func (m *Metrics) observeDecodeFailure() {
	if m == nil {
		return
	}

	m.decodeFailures.Inc()
}
