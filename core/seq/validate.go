// core/seq/validate.go
package seq

import "fmt"

func isNucleotide(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		return true
	default:
		return false
	}
}

// CheckAlphabet verifies that no more than maxOtherFrac of the bases in s
// fall outside the A/C/G/T/N alphabet. It returns the offending fraction
// in the error so callers can report it.
func CheckAlphabet(s string, maxOtherFrac float64) error {
	if len(s) == 0 {
		return nil
	}
	other := 0
	for i := 0; i < len(s); i++ {
		if !isNucleotide(s[i]) {
			other++
		}
	}
	frac := float64(other) / float64(len(s))
	if frac > maxOtherFrac {
		return fmt.Errorf("non-nucleotide characters: %.1f%% of sequence (tolerance %.1f%%)",
			frac*100, maxOtherFrac*100)
	}
	return nil
}

// Normalize uppercases a sequence in the A/C/G/T/N alphabet. Characters
// outside the alphabet are mapped to N.
func Normalize(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch c {
		case 'A', 'C', 'G', 'T', 'N':
			out[i] = c
		default:
			out[i] = 'N'
		}
	}
	return string(out)
}
