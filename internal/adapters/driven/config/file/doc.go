// Package file loads buildpipe's TOML configuration: project layout
// overrides, history retention, and user-defined pipelines.
package file
