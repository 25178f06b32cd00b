// Command jobb generates piping handlelister and serves the jobb API.
package main

import (
	"os"

	"github.com/mesh-intelligence/jobb/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
