// Command seed loads the sample reviews and, optionally, deterministic
// synthetic reviews into the configured PostgreSQL review store.
//
// Run: go run ./cmd/seed --synthetic 5000 --months 12
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
