package prosearch

import (
	"fmt"
	"os"
)

// Verbose controls progress chatter. Binaries flip it from a flag; the
// library stays quiet by default so tests and embedders see no output.
var Verbose = false

func verbosef(format string, v ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", v...)
}
