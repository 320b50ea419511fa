// Package metrics implements planner metrics sinks. PromSink exposes
// counters and histograms for scraping; InfluxSink pushes one point per
// compute call. Both register with the core factory under "prometheus" and
// "influx". StartEventCollector feeds any sink from the planner event bus.
package metrics
