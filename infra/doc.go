// Package infra contains technical adapters: the zerolog logger, metrics
// exporters and the MQTT plan publisher. These packages depend only on the
// interfaces defined in the core packages.
package infra
