// Command torq-conformance drives the adapter ingress four-step contract
// (spec §4.9) over JSON fixtures: "generate" emits a canonical known-good
// fixture, "validate" runs every fixture in a file through the pipeline
// and reports pass/fail per entry.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
