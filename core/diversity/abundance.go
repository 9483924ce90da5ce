// core/diversity/abundance.go
package diversity

import (
	"sort"

	"edna-core/cluster"
	"edna-core/taxonomy"
)

// Table maps taxon name to read count for one sample.
type Table map[string]int

// Total returns the summed read count.
func (t Table) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// BuildTable folds ASV read totals under their assigned taxon name.
// Unassigned ASVs keep their own identity under an "ASV:<id>" fallback
// name so their reads are not lost from the abundance accounting.
func BuildTable(asvs []cluster.ASV, byASV map[string]taxonomy.Assignment) Table {
	t := make(Table, len(asvs))
	for _, a := range asvs {
		name := ""
		if asg, ok := byASV[a.ID]; ok && asg.Assigned() {
			name = asg.Lineage.BestName()
		}
		if name == "" {
			name = "ASV:" + a.ID
		}
		t[name] += a.TotalReads
	}
	return t
}

// TaxonCount is one row of a ranked abundance list.
type TaxonCount struct {
	Taxon string
	Reads int
}

// Ranked returns the table as a list sorted by descending read count,
// ties broken by taxon name for stable output.
func (t Table) Ranked() []TaxonCount {
	out := make([]TaxonCount, 0, len(t))
	for taxon, reads := range t {
		out = append(out, TaxonCount{Taxon: taxon, Reads: reads})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reads != out[j].Reads {
			return out[i].Reads > out[j].Reads
		}
		return out[i].Taxon < out[j].Taxon
	})
	return out
}
