package main

import (
	"os"

	"github.com/dataset-analyzer/buildpipe/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
