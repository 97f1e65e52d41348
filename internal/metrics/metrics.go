package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FormErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relink_form_errors_total",
		Help: "Form submissions rejected by validation, by form.",
	}, []string{"form"})

	IntegrityFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relink_integrity_failures_total",
		Help: "Signed hidden-field values that failed signature verification.",
	})

	ImportsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relink_imports_confirmed_total",
		Help: "Bulk imports that passed the confirm step and were handed to the import engine.",
	})

	RedirectsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relink_redirects_total",
		Help: "Total number of redirect rules in the database.",
	})
)
