// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"edna/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	SeqFiles []string
	SampleID string // override; default derives one sample per file

	// Quality screen
	MinLength    int
	MinQuality   float64
	MaxAmbiguous float64

	// Clustering
	Identity       float64
	MinClusterSize int

	// Taxonomy
	MatcherURL string
	Database   string
	MinPercID  float64
	MinCov     float64
	Timeout    time.Duration

	// Contamination
	Environment string

	// Performance
	Threads int
	Seed    int64

	// Output
	Output string // json | jsonl | text | tsv
	Beta   bool
	Sort   bool
	Header bool // true unless --no-header

	// Misc
	Quiet   bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: environmental DNA sequence analysis

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Input
	var seq stringSlice
	fs.Var(&seq, "sequences", "FASTA/FASTQ file(s) (repeatable, .gz ok, or '-') [*]")
	fs.Var(&seq, "s", "alias of --sequences")
	fs.StringVar(&opt.SampleID, "sample", "", "sample ID override (default: derived from file name)")

	// Quality screen
	fs.IntVar(&opt.MinLength, "min-length", 50, "minimum read length [50]")
	fs.Float64Var(&opt.MinQuality, "min-quality", 20, "minimum mean Phred quality [20]")
	fs.Float64Var(&opt.MaxAmbiguous, "max-ambiguous", 0.05, "maximum fraction of N bases [0.05]")

	// Clustering
	fs.Float64Var(&opt.Identity, "identity", 0.97, "clustering identity threshold [0.97]")
	fs.IntVar(&opt.MinClusterSize, "min-cluster-size", 1, "discard clusters below this read count [1]")

	// Taxonomy
	fs.StringVar(&opt.MatcherURL, "matcher", "", "sequence matcher base URL (empty = skip assignment)")
	fs.StringVar(&opt.Database, "database", "nt", "reference database name [nt]")
	fs.Float64Var(&opt.MinPercID, "min-pident", 85, "minimum hit percent identity [85]")
	fs.Float64Var(&opt.MinCov, "min-qcov", 70, "minimum hit query coverage [70]")
	fs.DurationVar(&opt.Timeout, "timeout", 3*time.Minute, "per-query matcher timeout [3m]")

	// Contamination
	fs.StringVar(&opt.Environment, "environment", "marine", "expected sampling environment [marine]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "number of matcher workers (0 = default) [0]")
	fs.Int64Var(&opt.Seed, "seed", 1, "rarefaction RNG seed [1]")

	// Output
	fs.StringVar(&opt.Output, "output", "json", "output format: json | jsonl | text | tsv [json]")
	fs.BoolVar(&opt.Beta, "beta", false, "compute beta diversity across input samples [false]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort reports by sample ID for determinism [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in TSV [false]")

	// Misc
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings on stderr [false]")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.SeqFiles = seq
	opt.Header = !noHeader

	// Validation
	if len(opt.SeqFiles) == 0 {
		return opt, errors.New("at least one --sequences file is required")
	}
	if opt.SampleID != "" && len(opt.SeqFiles) > 1 {
		return opt, errors.New("--sample requires exactly one --sequences file")
	}
	if opt.MinLength < 1 {
		return opt, errors.New("--min-length must be ≥ 1")
	}
	if opt.Identity <= 0 || opt.Identity > 1 {
		return opt, errors.New("--identity must be in (0,1]")
	}
	if opt.MaxAmbiguous < 0 || opt.MaxAmbiguous > 1 {
		return opt, errors.New("--max-ambiguous must be in [0,1]")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.Timeout <= 0 {
		return opt, errors.New("--timeout must be positive")
	}
	switch opt.Output {
	case "json", "jsonl", "text", "tsv":
	default:
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
