// Command returnpulse unifies marketplace return reports. It prints grouped
// totals for files on disk or serves the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
