// internal/output/tsv.go
package output

import (
	"fmt"
	"io"

	"edna/internal/pipeline"
)

// WriteTSVHeader prints the canonical header row.
func WriteTSVHeader(w io.Writer) error {
	_, err := fmt.Fprintln(w, TSVHeader)
	return err
}

// WriteTSV prints one row per ASV with its assignment and contamination
// status. Rows follow clustering output order (descending abundance).
func WriteTSV(w io.Writer, r pipeline.Report) error {
	byASV := make(map[string]int, len(r.Taxonomy.Assignments))
	for i, a := range r.Taxonomy.Assignments {
		byASV[a.ASVID] = i
	}
	flagged := make(map[string]bool, len(r.Contamination.Flagged))
	for _, f := range r.Contamination.Flagged {
		flagged[f.ASVID] = true
	}

	for _, asv := range r.Clustering.ASVs {
		var (
			k, p, c, o, f, g, s string
			conf                float64
			method              string
		)
		if i, ok := byASV[asv.ID]; ok {
			a := r.Taxonomy.Assignments[i]
			l := a.Lineage
			k, p, c, o, f, g, s = l.Kingdom, l.Phylum, l.Class, l.Order, l.Family, l.Genus, l.Species
			conf = a.Confidence
			method = a.Method
		}
		_, err := fmt.Fprintf(w,
			"%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.4f\t%s\t%t\n",
			r.SampleID, asv.ID, asv.TotalReads,
			k, p, c, o, f, g, s,
			conf, method, flagged[asv.ID],
		)
		if err != nil {
			return err
		}
	}
	return nil
}
