// internal/output/json.go
package output

import (
	"io"

	"edna/internal/jsonio"
	"edna/internal/pipeline"
)

// WriteJSON writes one sample report as a pretty-indented v1 document.
func WriteJSON(w io.Writer, r pipeline.Report) error {
	return jsonio.EncodePretty(w, ToAPIReport(r))
}

// WriteBatchJSON writes a full batch, beta matrix included, as one
// pretty-indented v1 document.
func WriteBatchJSON(w io.Writer, b pipeline.Batch) error {
	return jsonio.EncodePretty(w, ToAPIBatch(b))
}
