// internal/common/ids.go
package common

import (
	"path/filepath"
	"strings"
)

// SampleIDFromPath derives a sample identifier from an input file name:
// base name with compression and sequence-format suffixes stripped.
// "-" (stdin) maps to "stdin".
func SampleIDFromPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	for _, ext := range []string{".fastq", ".fq", ".fasta", ".fa", ".fna"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
