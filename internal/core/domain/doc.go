// Package domain contains the core types for build pipelines:
// pipelines, steps, runs, and their validation rules.
// It has no dependencies on adapters or external services.
package domain
