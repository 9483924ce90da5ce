// core/taxonomy/taxonomy.go
package taxonomy

// Lineage is a seven-rank taxonomic classification. Empty ranks are
// simply unknown at that depth.
type Lineage struct {
	Kingdom string
	Phylum  string
	Class   string
	Order   string
	Family  string
	Genus   string
	Species string
}

// IsZero reports whether no rank is known.
func (l Lineage) IsZero() bool {
	return l == Lineage{}
}

// BestName returns the most specific known rank name, or "" when the
// lineage is entirely unknown.
func (l Lineage) BestName() string {
	for _, name := range []string{l.Species, l.Genus, l.Family, l.Order, l.Class, l.Phylum, l.Kingdom} {
		if name != "" {
			return name
		}
	}
	return ""
}

// Hit is one alignment hit from a sequence similarity search.
type Hit struct {
	QueryID         string
	HitID           string
	PercentIdentity float64 // 0..100
	QueryCoverage   float64 // 0..100
	AlignmentLength int
	EValue          float64
	Lineage         Lineage
}

// Assignment is the (at most one) taxonomic call for an ASV.
// An unassigned ASV has Confidence 0 and a Reason explaining why.
type Assignment struct {
	ASVID      string
	Lineage    Lineage
	Confidence float64 // 0..1, derived from the hit, never fabricated
	Method     string  // e.g. "blast"
	HitID      string  // raw hit identifier, when assigned
	Reason     string  // set when unassigned
}

// Assigned reports whether the ASV received a taxonomic call.
func (a Assignment) Assigned() bool { return a.Confidence > 0 && !a.Lineage.IsZero() }
