// core/seq/quality.go
package seq

// PhredOffset is the Sanger/Illumina 1.8+ quality encoding offset.
const PhredOffset = 33

// Phred decodes one quality character to its Phred score.
func Phred(c byte) int { return int(c) - PhredOffset }

// MeanQuality returns the mean Phred score of a quality string, or 0 for
// an empty string.
func MeanQuality(q string) float64 {
	if len(q) == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < len(q); i++ {
		sum += Phred(q[i])
	}
	return float64(sum) / float64(len(q))
}
