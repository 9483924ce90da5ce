// core/contam/contam.go
package contam

import (
	"fmt"
	"strings"

	"edna-core/cluster"
	"edna-core/taxonomy"
)

// Flag reasons.
const (
	ReasonKnownContaminant = "known_contaminant"
	ReasonImplausibleTaxon = "implausible_for_environment"
	ReasonChimericSignal   = "low_confidence_high_abundance"
)

// Options controls the contamination heuristics. All thresholds are
// overridable; DefaultOptions covers marine samples.
type Options struct {
	// KnownContaminants are taxon names (any rank, substring match,
	// case-insensitive) flagged wherever they appear.
	KnownContaminants []string
	// AbundanceFloor: ASVs with fewer total reads than this are checked
	// against the environment plausibility rule.
	AbundanceFloor int
	// Environment is the sample's declared environment, keying into
	// ExpectedKingdoms.
	Environment string
	// ExpectedKingdoms lists the kingdoms plausible per environment. An
	// assigned ASV below the abundance floor whose kingdom is absent from
	// the sample's list is flagged.
	ExpectedKingdoms map[string][]string
	// LowConfidence and HighReadShare drive the chimeric-amplification
	// rule: an ASV assigned with confidence below LowConfidence that
	// still holds more than HighReadShare of total reads is suspect.
	LowConfidence float64
	HighReadShare float64
	// ScoreThreshold: IsClean when the weighted contamination score stays
	// below it.
	ScoreThreshold float64
}

// DefaultOptions returns the marine defaults. The contaminant list covers
// human DNA and the usual reagent/lab organisms.
func DefaultOptions() Options {
	return Options{
		KnownContaminants: []string{
			"Homo sapiens",
			"Escherichia coli",
			"Cutibacterium acnes",
			"Staphylococcus",
			"Pseudomonas fluorescens",
			"Ralstonia",
			"Bradyrhizobium",
		},
		AbundanceFloor: 5,
		Environment:    "marine",
		ExpectedKingdoms: map[string][]string{
			"marine": {"Animalia", "Plantae", "Chromista", "Protozoa", "Bacteria", "Archaea"},
		},
		LowConfidence:  0.5,
		HighReadShare:  0.2,
		ScoreThreshold: 0.05,
	}
}

// Validate rejects nonsensical thresholds.
func (o Options) Validate() error {
	if o.AbundanceFloor < 0 {
		return fmt.Errorf("abundance floor must be >= 0, got %d", o.AbundanceFloor)
	}
	for name, v := range map[string]float64{
		"low confidence":  o.LowConfidence,
		"high read share": o.HighReadShare,
		"score threshold": o.ScoreThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, v)
		}
	}
	return nil
}

// Weight of each rule in the contamination score. A read flagged by the
// contaminant list counts fully; the softer heuristics count less.
var reasonWeight = map[string]float64{
	ReasonKnownContaminant: 1.0,
	ReasonChimericSignal:   0.8,
	ReasonImplausibleTaxon: 0.6,
}

// Flag marks one suspicious ASV.
type Flag struct {
	ASVID  string
	Reason string
}

// Report is the contamination verdict for one sample.
type Report struct {
	SampleID string
	Score    float64 // weighted flagged-read fraction, always in [0,1]
	IsClean  bool
	Flagged  []Flag
}

// Analyze applies the three heuristics to a sample's ASVs. taxonomyMap
// may be nil or partial; unassigned ASVs are only subject to rules that
// do not need a taxon. Each ASV is flagged at most once, by the first
// matching rule in list -> plausibility -> chimeric order.
func Analyze(sampleID string, asvs []cluster.ASV, byASV map[string]taxonomy.Assignment, o Options) Report {
	rep := Report{SampleID: sampleID, IsClean: true}
	totalReads := 0
	for _, a := range asvs {
		totalReads += a.TotalReads
	}
	if totalReads == 0 {
		return rep
	}

	expected := o.ExpectedKingdoms[o.Environment]
	var weighted float64
	for _, a := range asvs {
		asg, hasTaxon := byASV[a.ID]
		if hasTaxon && !asg.Assigned() {
			hasTaxon = false
		}

		reason := ""
		switch {
		case hasTaxon && matchesContaminant(asg.Lineage, o.KnownContaminants):
			reason = ReasonKnownContaminant
		case hasTaxon && a.TotalReads < o.AbundanceFloor && !kingdomExpected(asg.Lineage.Kingdom, expected):
			reason = ReasonImplausibleTaxon
		case hasTaxon && asg.Confidence < o.LowConfidence &&
			float64(a.TotalReads)/float64(totalReads) > o.HighReadShare:
			reason = ReasonChimericSignal
		}
		if reason == "" {
			continue
		}
		rep.Flagged = append(rep.Flagged, Flag{ASVID: a.ID, Reason: reason})
		weighted += reasonWeight[reason] * float64(a.TotalReads)
	}

	rep.Score = weighted / float64(totalReads)
	if rep.Score > 1 {
		rep.Score = 1
	}
	rep.IsClean = rep.Score < o.ScoreThreshold
	return rep
}

func matchesContaminant(l taxonomy.Lineage, list []string) bool {
	names := []string{l.Species, l.Genus, l.Family, l.Order, l.Class, l.Phylum, l.Kingdom}
	for _, contaminant := range list {
		c := strings.ToLower(contaminant)
		for _, n := range names {
			if n == "" {
				continue
			}
			if strings.Contains(strings.ToLower(n), c) {
				return true
			}
		}
	}
	return false
}

func kingdomExpected(kingdom string, expected []string) bool {
	if kingdom == "" || len(expected) == 0 {
		// Unknown kingdom or unknown environment: cannot call it implausible.
		return true
	}
	for _, k := range expected {
		if strings.EqualFold(k, kingdom) {
			return true
		}
	}
	return false
}
