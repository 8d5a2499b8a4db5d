// Command sortable renders records as tables with multi-level headers
// and sortable columns.
package main

import (
	"os"

	"github.com/domonda/go-sortable/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
