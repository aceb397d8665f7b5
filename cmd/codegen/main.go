// Package main is the codegen command-line client. It runs the generation
// pipeline in-process using the same configuration as the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
