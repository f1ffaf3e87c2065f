// Package main is the entry point for the querydeck CLI.
// It provides a terminal client for a query console backend.
package main

import (
	"querydeck/cli/cmd"
)

func main() {
	cmd.Execute()
}
