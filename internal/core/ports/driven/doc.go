// Package driven defines the outbound ports: interfaces the core
// services depend on and adapters implement (command execution,
// run persistence).
package driven
