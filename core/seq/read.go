// core/seq/read.go
package seq

// Read is one sequencing read as delivered by the upstream parser.
// Sequence uses the A/C/G/T/N alphabet; Quality is Phred+33 encoded and,
// when present, has the same length as Sequence. Reads are treated as
// immutable once constructed.
type Read struct {
	ID       string
	Sequence string
	Quality  string // empty when the platform provides no quality string
}

// HasQuality reports whether the read carries a quality string.
func (r Read) HasQuality() bool { return r.Quality != "" }

// AmbiguousFraction returns the fraction of N bases in the sequence.
// An empty sequence counts as fully ambiguous.
func (r Read) AmbiguousFraction() float64 {
	if len(r.Sequence) == 0 {
		return 1
	}
	n := 0
	for i := 0; i < len(r.Sequence); i++ {
		if c := r.Sequence[i]; c == 'N' || c == 'n' {
			n++
		}
	}
	return float64(n) / float64(len(r.Sequence))
}
