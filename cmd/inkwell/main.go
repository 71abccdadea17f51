// Package main is the entry point for the inkwell blog API. The binary is a
// cobra command tree: serve runs the HTTP server, migrate and seed manage the
// database, version prints build information.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
