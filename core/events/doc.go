// Package events defines payloads published on the internal event bus.
package events
