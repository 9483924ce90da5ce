// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"

	"edna-core/cluster"
	"edna-core/contam"
	"edna-core/diversity"
	"edna-core/qc"
	"edna-core/seq"
	"edna-core/taxonomy"

	"edna/internal/assign"
	"edna/internal/matcher"
)

// Options aggregates the per-stage option structs. Zero values are filled
// from the stage defaults by Normalize, so callers only set what they
// override.
type Options struct {
	Quality       qc.Options
	Clustering    cluster.Options
	Taxonomy      assign.Options
	Contamination contam.Options

	// AlphabetTolerance is the accepted fraction of non-nucleotide
	// characters per read before the whole batch is rejected as invalid.
	AlphabetTolerance float64

	// Rarefaction curve shape.
	RarefactionSteps      int
	RarefactionIterations int
	Seed                  int64
}

// DefaultOptions returns the stage defaults.
func DefaultOptions() Options {
	return Options{
		Quality:               qc.DefaultOptions(),
		Clustering:            cluster.DefaultOptions(),
		Taxonomy:              assign.DefaultOptions(),
		Contamination:         contam.DefaultOptions(),
		AlphabetTolerance:     0.1,
		RarefactionSteps:      10,
		RarefactionIterations: 25,
		Seed:                  1,
	}
}

// Validate checks every stage's thresholds up front so a bad value is a
// configuration error, not a mid-run surprise.
func (o Options) Validate() error {
	if err := o.Quality.Validate(); err != nil {
		return configf("quality: %v", err)
	}
	if err := o.Clustering.Validate(); err != nil {
		return configf("clustering: %v", err)
	}
	if err := o.Taxonomy.Validate(); err != nil {
		return configf("taxonomy: %v", err)
	}
	if err := o.Contamination.Validate(); err != nil {
		return configf("contamination: %v", err)
	}
	if o.AlphabetTolerance < 0 || o.AlphabetTolerance > 1 {
		return configf("alphabet tolerance must be in [0,1], got %v", o.AlphabetTolerance)
	}
	if o.RarefactionSteps < 0 || o.RarefactionIterations < 0 {
		return configf("rarefaction steps/iterations must be >= 0")
	}
	return nil
}

// Input is one analysis request.
type Input struct {
	SampleID string
	Reads    []seq.Read
}

// Report is the single in-memory outcome of one pipeline invocation.
// The caller owns persistence; SampleID and the ASV IDs inside are
// stable strings suitable as foreign keys.
type Report struct {
	SampleID string
	RunID    string // set by serving layers; empty for direct calls

	Stage Stage  // last completed stage
	Fatal string // set when an unexpected error aborted the run

	Filter        qc.Metrics
	Clustering    cluster.Result
	Taxonomy      assign.Result
	Alpha         diversity.AlphaResult
	Rarefaction   []diversity.RarefactionPoint
	Contamination contam.Report
	TopSpecies    []diversity.TaxonCount
}

// Run executes the full pipeline for one sample. Domain-expected
// conditions (low quality, unassigned taxonomy, unreachable matcher)
// never abort; an unexpected panic inside a stage stops the remaining
// stages and returns the partial report with Fatal set, so completed
// results are not lost. Only validation and configuration failures
// return a non-nil error, before any stage runs.
func Run(ctx context.Context, client matcher.Client, in Input, o Options) (*Report, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if in.SampleID == "" {
		return nil, validationf("sample ID is required")
	}
	if len(in.Reads) == 0 {
		return nil, validationf("no reads in sample %q", in.SampleID)
	}
	for _, r := range in.Reads {
		if err := seq.CheckAlphabet(r.Sequence, o.AlphabetTolerance); err != nil {
			return nil, validationf("read %q: %v", r.ID, err)
		}
		if r.Quality != "" && len(r.Quality) != len(r.Sequence) {
			return nil, validationf("read %q: quality length %d != sequence length %d",
				r.ID, len(r.Quality), len(r.Sequence))
		}
	}

	rep := &Report{SampleID: in.SampleID, Stage: StageInit}

	// Stage 1: quality filter.
	var filtered qc.Result
	if !runStage(rep, StageFiltering, func() {
		filtered = qc.Filter(in.Reads, o.Quality)
		rep.Filter = filtered.Metrics
	}) {
		return rep, nil
	}

	// Stage 2: ASV clustering. Zero passed reads is a valid outcome and
	// flows through as an empty, well-formed report.
	if !runStage(rep, StageClustering, func() {
		rep.Clustering = cluster.Cluster(filtered.Passed, o.Clustering)
	}) {
		return rep, nil
	}

	// Stage 3: taxonomic assignment, the only stage doing I/O.
	if !runStage(rep, StageTaxonomy, func() {
		rep.Taxonomy = assign.Batch(ctx, client, rep.Clustering.ASVs, o.Taxonomy)
	}) {
		return rep, nil
	}

	byASV := make(map[string]taxonomy.Assignment, len(rep.Taxonomy.Assignments))
	for _, a := range rep.Taxonomy.Assignments {
		byASV[a.ASVID] = a
	}
	table := diversity.BuildTable(rep.Clustering.ASVs, byASV)

	// Stage 4: diversity.
	if !runStage(rep, StageDiversity, func() {
		rep.Alpha = diversity.Alpha(in.SampleID, table)
		rep.Rarefaction = diversity.Rarefaction(table, o.RarefactionSteps, o.RarefactionIterations, o.Seed)
	}) {
		return rep, nil
	}

	// Stage 5: contamination.
	if !runStage(rep, StageContamination, func() {
		rep.Contamination = contam.Analyze(in.SampleID, rep.Clustering.ASVs, byASV, o.Contamination)
	}) {
		return rep, nil
	}

	rep.TopSpecies = table.Ranked()
	if err := advance(rep.Stage, StageDone); err != nil {
		rep.Fatal = err.Error()
		return rep, nil
	}
	rep.Stage = StageDone
	return rep, nil
}

// runStage advances the state machine and executes fn, converting an
// unexpected panic into a fatal marker on the report. It reports whether
// the pipeline may continue.
func runStage(rep *Report, to Stage, fn func()) (ok bool) {
	if err := advance(rep.Stage, to); err != nil {
		rep.Fatal = err.Error()
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			rep.Fatal = fmt.Sprintf("stage %s: %v", to, r)
			ok = false
		}
	}()
	fn()
	rep.Stage = to
	return true
}

// Batch holds the reports of a multi-sample run plus the cross-sample
// beta diversity comparison (computable only when at least two samples
// completed their diversity stage).
type Batch struct {
	Reports []*Report
	Beta    *diversity.BetaMatrix
}

// RunBatch runs the pipeline per sample and adds the pairwise beta
// diversity matrices. Per-sample validation failures are returned as the
// first error; runs already completed are kept in the batch.
func RunBatch(ctx context.Context, client matcher.Client, inputs []Input, o Options) (Batch, error) {
	var b Batch
	tables := make(map[string]diversity.Table, len(inputs))
	for _, in := range inputs {
		rep, err := Run(ctx, client, in, o)
		if err != nil {
			return b, err
		}
		b.Reports = append(b.Reports, rep)
		if rep.Fatal == "" {
			byASV := make(map[string]taxonomy.Assignment, len(rep.Taxonomy.Assignments))
			for _, a := range rep.Taxonomy.Assignments {
				byASV[a.ASVID] = a
			}
			tables[rep.SampleID] = diversity.BuildTable(rep.Clustering.ASVs, byASV)
		}
	}
	if len(tables) >= 2 {
		m := diversity.Beta(tables)
		b.Beta = &m
	}
	return b, nil
}
