package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreErrors counts failed backing-store commands, labeled by command name.
// The store's Redis client increments it from a command hook.
var StoreErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkwell_store_errors_total",
		Help: "Total number of failed backing store commands",
	},
	[]string{"command"},
)

var (
	initOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics registers application metrics and returns the Prometheus
// middleware for the Fiber app. Registration happens once, so repeated
// server construction (tests) does not panic the default registry.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	initOnce.Do(func() {
		prometheus.MustRegister(StoreErrors)
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware returns the HTTP metrics handler for the given instance.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
