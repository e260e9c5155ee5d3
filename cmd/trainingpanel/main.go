// Package main is the entry point for the trainingpanel CLI.
package main

import (
	"fmt"
	"os"

	"trainingpanel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
