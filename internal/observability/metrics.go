// Package observability provides Prometheus metrics for the API.
package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphQLOperations counts executed GraphQL operations by name and outcome.
	GraphQLOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_graphql_operations_total",
		Help: "Total number of GraphQL operations by operation name and status",
	}, []string{"operation", "status"})

	// GraphQLOperationDuration records GraphQL execution latency by operation name.
	GraphQLOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chirp_graphql_operation_duration_seconds",
		Help:    "GraphQL operation execution latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// MediaStoreOperations counts media collaborator calls by operation and outcome.
	MediaStoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_media_store_operations_total",
		Help: "Total number of media store uploads and deletes by status",
	}, []string{"operation", "status"})
)

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the Prometheus HTTP middleware for the Fiber app. The
// middleware registers collectors in the default registry, so there is
// exactly one instance per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMW = fiberprometheus.New(serviceName)
	})
	return promMW
}

// ObserveGraphQL records one executed GraphQL operation.
func ObserveGraphQL(operation string, failed bool, start time.Time) {
	status := "ok"
	if failed {
		status = "error"
	}
	GraphQLOperations.WithLabelValues(operation, status).Inc()
	GraphQLOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveMediaStore records one media collaborator call.
func ObserveMediaStore(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	MediaStoreOperations.WithLabelValues(operation, status).Inc()
}
