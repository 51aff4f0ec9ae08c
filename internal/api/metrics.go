package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_bookings_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	refundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_refunds_total",
		Help: "Refund requests by outcome",
	}, []string{"outcome"})
)
