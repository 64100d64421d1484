// Package metrics exposes the prometheus counters of the session lifecycle and
// the product analytics events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace string = "onboarding_gateway"

// AuthMetrics counts token refreshes and logouts per credential scope.
type AuthMetrics struct {
	refreshes *prometheus.CounterVec
	logouts   *prometheus.CounterVec
}

func (m *AuthMetrics) RefreshCompleted(scope string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.refreshes.WithLabelValues(scope, outcome).Inc()
}

func (m *AuthMetrics) LoggedOut(scope string, reason string) {
	m.logouts.WithLabelValues(scope, reason).Inc()
}

func NewAuthMetrics(registerer prometheus.Registerer) (*AuthMetrics, error) {
	m := AuthMetrics{
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refreshes_total",
				Help:      "Token refresh calls issued to the backend, by scope and outcome.",
			},
			[]string{"scope", "outcome"},
		),
		logouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logouts_total",
				Help:      "Sessions ended by the gateway, by scope and reason.",
			},
			[]string{"scope", "reason"},
		),
	}
	for _, collector := range []prometheus.Collector{m.refreshes, m.logouts} {
		err := registerer.Register(collector)
		if err != nil {
			return &AuthMetrics{}, err
		}
	}
	return &m, nil
}
