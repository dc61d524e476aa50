// Package metrics defines the Prometheus metrics for the telemedicine API.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "telemed"

// BookingsTotal counts booking attempts by outcome.
// Label:
//   - outcome: "booked", "conflict", "doctor_not_found", "patient_not_found", "invalid"
var BookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Total number of appointment booking attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts by role and result.
// Labels:
//   - role: "admin" or "patient"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// RegistrationsTotal counts successful registrations by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful account registrations, by role.",
	},
	[]string{"role"},
)

// AppointmentTransitionsTotal counts reschedule and cancel operations.
// Label:
//   - transition: "reschedule" or "cancel"
var AppointmentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_transitions_total",
		Help:      "Total number of successful appointment status transitions.",
	},
	[]string{"transition"},
)
