// Package main provides the CLI entry point for lookgen.
package main

import "github.com/leapstack-labs/lookgen/internal/cli"

func main() {
	cli.Execute()
}
