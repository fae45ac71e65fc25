package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wkusuma/customs-case-management/internal/core/events"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts partitioned by outcome.",
	}, []string{"outcome"})

	accountLockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_account_lockouts_total",
		Help: "Accounts locked after exceeding the failed-attempt threshold.",
	})
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RegisterSubscribers wires the login-outcome counters to the event bus.
func RegisterSubscribers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeLoginSucceeded, func(ctx context.Context, e events.Event) error {
		loginAttempts.WithLabelValues("success").Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeLoginFailed, func(ctx context.Context, e events.Event) error {
		loginAttempts.WithLabelValues("failure").Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeAccountLocked, func(ctx context.Context, e events.Event) error {
		accountLockouts.Inc()
		return nil
	})
}
