// acnh searches an Animal Crossing: New Horizons item catalog and tracks
// which items you own and which you are still hunting for.
package main

import (
	"os"

	"github.com/corey/acnh/cmd/acnh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
