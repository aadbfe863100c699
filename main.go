package main

import (
	"fmt"
	"os"

	"trends-explorer/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	// Global panic recovery to prevent application crash
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	cli.SetVersion(version)
	if err := cli.Execute(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
