// Package metrics defines the sink interface for planner observability.
// Concrete sinks (Prometheus, InfluxDB) live in infra/metrics and register
// themselves with the factory; several configured sinks are combined into a
// MultiSink automatically.
package metrics
