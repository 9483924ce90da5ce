// internal/writers/stream.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"edna/internal/jsonio"
	"edna/internal/output"
	"edna/internal/pipeline"
)

// StartReportJSONLWriter streams each report as one JSON line (v1).
func StartReportJSONLWriter(out io.Writer, bufSize int) (chan<- pipeline.Report, <-chan error) {
	return jsonio.StartStream[pipeline.Report](out, bufSize,
		func(enc *json.Encoder, r pipeline.Report) error {
			return enc.Encode(output.ToAPIReport(r))
		},
		IsBrokenPipe,
	)
}

// StartReportWriter returns a channel-based writer for any supported
// format. JSONL streams line by line; the other formats render each
// report as it arrives, with a single TSV header up front.
func StartReportWriter(format string, w io.Writer, bufSize int, noHeader bool) (chan<- pipeline.Report, <-chan error, error) {
	switch format {
	case "jsonl":
		in, done := StartReportJSONLWriter(w, bufSize)
		return in, done, nil
	case "json", "text", "tsv":
		if bufSize <= 0 {
			bufSize = 16
		}
		in := make(chan pipeline.Report, bufSize)
		done := make(chan error, 1)
		go func() {
			if format == "tsv" && !noHeader {
				if err := output.WriteTSVHeader(w); err != nil && !IsBrokenPipe(err) {
					for range in {
					}
					done <- err
					return
				}
			}
			for r := range in {
				if err := WriteReport(format, w, r); err != nil {
					if IsBrokenPipe(err) {
						for range in {
						}
						done <- nil
						return
					}
					done <- err
					return
				}
			}
			done <- nil
		}()
		return in, done, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(Formats(), " | "))
	}
}
