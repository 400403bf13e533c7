// Package main provides the kqlens CLI entry point.
package main

import (
	"os"

	"github.com/loglens-labs/kqlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
