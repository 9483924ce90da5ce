// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
)

// Warnf prints a prefixed warning to dst unless quiet is set. The CLI
// routes its advisory output (offline matcher, aborted samples) through
// here so --quiet silences it in one place.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}
