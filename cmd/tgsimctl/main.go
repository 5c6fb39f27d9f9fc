// Command tgsimctl drives one named end-to-end scenario from spec.md's
// testable-properties section against a freshly built simulation graph.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tgsim/tgsim/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Run(context.Background(), os.Args[1:], version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
