package main

import (
	"errors"
	"fmt"
	"os"
)

// Set by the release build.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errSetupCancelled) {
			return
		}
		fmt.Fprintln(os.Stderr, "chatnary:", err)
		os.Exit(1)
	}
}
