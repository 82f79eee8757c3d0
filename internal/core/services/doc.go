// Package services implements the core pipeline execution logic behind
// the driving ports, independent of any concrete adapter.
package services
