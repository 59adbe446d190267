// Package metrics holds the domain Prometheus collectors. They live apart from
// the HTTP package so services can record without importing transport code.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch results for AutomationDispatch.
const (
	DispatchDelivered = "delivered" // 2xx
	DispatchRejected  = "rejected"  // webhook answered non-2xx
	DispatchFailed    = "failed"    // transport error / timeout
	DispatchNoConfig  = "not_configured"
)

var (
	OAuthCallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_oauth_callbacks_total",
		Help: "Callbacks de LinkedIn por resultado y código de error",
	}, []string{"result", "code"})

	AutomationDispatch = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_automation_dispatch_total",
		Help: "Envíos al webhook de automatización por resultado",
	}, []string{"result"})

	ScheduleSyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_schedule_sync_total",
		Help: "Sincronizaciones de agenda con Make por resultado",
	}, []string{"result"})
)

// Register registers the domain metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{OAuthCallbacks, AutomationDispatch, ScheduleSyncs} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ObserveCallback records a terminal callback outcome.
func ObserveCallback(success bool, code string) {
	result := "success"
	if !success {
		result = "error"
	}
	OAuthCallbacks.WithLabelValues(result, code).Inc()
}

func ObserveDispatch(result string) { AutomationDispatch.WithLabelValues(result).Inc() }

func ObserveScheduleSync(ok bool) {
	if ok {
		ScheduleSyncs.WithLabelValues("success").Inc()
		return
	}
	ScheduleSyncs.WithLabelValues("error").Inc()
}
