// Command torq-relay runs a single domain relay: one of
// market-data|signal|execution|system, each on its own local socket
// (spec §4.6, §6.2).
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
