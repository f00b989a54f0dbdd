// Package metrics exposes prometheus instrumentation for the payment plan
// core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlanStoreReads counts raw plan reads that reached the ledger store,
	// i.e. cache misses.
	PlanStoreReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paymeback_plan_store_reads_total",
		Help: "Raw payment plan reads served by the ledger store (cache misses).",
	})

	// PlanUpdates counts UpdatePaymentPlan attempts by outcome: ok,
	// validation_failed or store_error.
	PlanUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paymeback_plan_updates_total",
		Help: "Payment plan update attempts by outcome.",
	}, []string{"status"})
)
