package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tunebar"

type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Set groups the counters the menu service reports.
type Set struct {
	Registry    *prometheus.Registry
	Clicks      IncrementalCounter
	Rebuilds    IncrementalCounter
	BridgeCalls IncrementalCounter
}

// NewSet registers the menu service counters on a fresh registry.
func NewSet() *Set {
	reg := prometheus.NewRegistry()
	return &Set{
		Registry:    reg,
		Clicks:      NewCounterWithRegistry(reg, "menu_clicks_total", "Menu item clicks by item kind.", "kind"),
		Rebuilds:    NewCounterWithRegistry(reg, "menu_rebuilds_total", "Full menu rebuild and install cycles."),
		BridgeCalls: NewCounterWithRegistry(reg, "bridge_calls_total", "Requests sent to the window content layer.", "type", "result"),
	}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
