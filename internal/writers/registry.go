// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"strings"

	"edna/internal/output"
	"edna/internal/pipeline"
)

// FormatFunc renders one report to w.
type FormatFunc func(w io.Writer, r pipeline.Report) error

// ReportWriters maps format name → renderer. Registered here rather
// than via init() so the full format list is visible in one place.
var ReportWriters = map[string]FormatFunc{
	"json": output.WriteJSON,
	"text": output.WriteText,
	"tsv":  output.WriteTSV,
}

// Formats returns the supported single-report format names.
func Formats() []string {
	return []string{"json", "jsonl", "text", "tsv"}
}

// WriteReport dispatches one report to the named format writer.
// "jsonl" is stream-only; use StartReportWriter for it.
func WriteReport(format string, w io.Writer, r pipeline.Report) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(Formats(), " | "))
	}
	return fn(w, r)
}
