// Package main is the entry point for the eijiro CLI.
package main

import (
	"os"

	"github.com/runger/eijiro/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
