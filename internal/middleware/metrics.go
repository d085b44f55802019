package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// InitMetrics builds the Prometheus HTTP middleware for the given service
// name. The collectors live in the default registry, so the instance is a
// process-wide singleton; later calls return the first one regardless of
// name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(serviceName)
	})
	return promMiddleware
}

// MetricsMiddleware wraps the fiberprometheus handler as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
