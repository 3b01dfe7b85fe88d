// Package main is the entry point for the cricmetrics CLI tool, which parses
// Cricsheet-style T20 match JSON and computes per-player delivery features.
package main

import "github.com/amribanerjee/cricmetrics/cmd"

func main() {
	cmd.Execute()
}
