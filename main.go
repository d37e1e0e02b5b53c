// Command clothespin tokenizes, benchmarks, diffs and watches source files.
package main

import (
	"fmt"
	"os"

	"github.com/zjrosen/clothespin/cmd"
)

// Set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
