// Command torq-node boots the pool-state store and pool-metadata cache and
// reports their readiness. It does not implement a blockchain RPC client
// (spec §4 Non-goals); discovery is wired to a stub backend that always
// reports pools as undiscoverable until a real client is plugged in.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
