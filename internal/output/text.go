// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"

	"edna/internal/pipeline"
)

// WriteText prints a human-readable per-sample summary block.
func WriteText(w io.Writer, r pipeline.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "sample %s", r.SampleID)
	if r.RunID != "" {
		fmt.Fprintf(&b, " (run %s)", r.RunID)
	}
	b.WriteByte('\n')
	if r.Fatal != "" {
		fmt.Fprintf(&b, "  FATAL at %s: %s\n", r.Stage, r.Fatal)
	}

	fmt.Fprintf(&b, "  reads     %d in, %d passed, %d failed\n",
		r.Filter.Input, r.Filter.Passed, r.Filter.Failed)
	for _, reason := range []string{"too_short", "ambiguous_bases", "low_quality"} {
		if n := r.Filter.Reasons[reason]; n > 0 {
			fmt.Fprintf(&b, "            %s: %d\n", reason, n)
		}
	}

	fmt.Fprintf(&b, "  asvs      %d (%d singletons)\n",
		r.Clustering.TotalASVs, r.Clustering.Singletons)
	fmt.Fprintf(&b, "  taxonomy  %d/%d assigned", r.Taxonomy.AssignedCount,
		r.Taxonomy.AssignedCount+r.Taxonomy.UnassignedCount)
	if r.Taxonomy.AssignedCount > 0 {
		fmt.Fprintf(&b, ", mean confidence %.2f", r.Taxonomy.AverageConfidence)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "  diversity shannon=%.3f simpson=%.3f chao1=%.1f evenness=%.3f (%d taxa)\n",
		r.Alpha.Shannon, r.Alpha.Simpson, r.Alpha.Chao1, r.Alpha.Evenness, r.Alpha.ObservedTaxa)

	verdict := "clean"
	if !r.Contamination.IsClean {
		verdict = "CONTAMINATED"
	}
	fmt.Fprintf(&b, "  contam    score=%.3f %s", r.Contamination.Score, verdict)
	if n := len(r.Contamination.Flagged); n > 0 {
		fmt.Fprintf(&b, " (%d flagged)", n)
	}
	b.WriteByte('\n')

	for i, t := range r.TopSpecies {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "  top       %s (%d reads)\n", t.Taxon, t.Reads)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
