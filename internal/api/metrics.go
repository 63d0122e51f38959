package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citypass_api_registrations_total",
		Help: "The total number of successful user registrations",
	})
	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citypass_api_logins_total",
		Help: "The total number of successful logins",
	})
	ticketsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citypass_api_tickets_created_total",
		Help: "The total number of tickets created",
	})
	paymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citypass_api_payments_total",
		Help: "The total number of processed payments by outcome",
	}, []string{"status"})
)
