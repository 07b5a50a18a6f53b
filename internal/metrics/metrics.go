// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streetstore_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streetstore_registrations_total",
		Help: "Successfully registered users.",
	})

	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streetstore_auth_rejections_total",
		Help: "Requests rejected by the access guard, by reason.",
	}, []string{"reason"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streetstore_orders_created_total",
		Help: "Orders created through checkout.",
	})
)
