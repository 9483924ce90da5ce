// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"edna/internal/cli"
	"edna/internal/cmdutil"
	"edna/internal/common"
	"edna/internal/fastx"
	"edna/internal/jsonio"
	"edna/internal/matcher"
	"edna/internal/output"
	"edna/internal/pipeline"
	"edna/internal/version"
	"edna/internal/writers"
	"edna/pkg/api"
)

// RunContext is the CLI entrypoint: parse flags, read inputs, run the
// pipeline, render reports. Exit codes: 0 ok, 2 usage/input error,
// 3 runtime/write error.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("edna")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flushExit(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flushExit(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "edna version %s\n", version.Version)
		return flushExit(outw, stderr, 0)
	}

	popts := pipelineOptions(opts)
	if err := popts.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	var client matcher.Client
	if opts.MatcherURL != "" {
		cfg := matcher.DefaultHTTPConfig(opts.MatcherURL)
		cfg.Database = opts.Database
		cfg.Timeout = opts.Timeout
		client = matcher.NewHTTP(cfg)
	} else {
		cmdutil.Warnf(stderr, opts.Quiet, "no --matcher given; taxonomy assignment skipped")
	}

	inputs := make([]pipeline.Input, 0, len(opts.SeqFiles))
	for _, path := range opts.SeqFiles {
		reads, err := fastx.ReadFile(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		id := common.SampleIDFromPath(path)
		if opts.SampleID != "" {
			id = opts.SampleID
		}
		inputs = append(inputs, pipeline.Input{SampleID: id, Reads: reads})
	}

	batch, err := pipeline.RunBatch(parent, client, inputs, popts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		if errors.Is(err, pipeline.ErrValidation) || errors.Is(err, pipeline.ErrConfig) {
			return 2
		}
		return 3
	}
	for _, rep := range batch.Reports {
		if rep.Fatal != "" {
			cmdutil.Warnf(stderr, opts.Quiet, "sample %s aborted at %s: %s",
				rep.SampleID, rep.Stage, rep.Fatal)
		}
	}
	if opts.Sort {
		common.SortReports(batch.Reports)
	}
	if !opts.Beta {
		batch.Beta = nil
	}

	if err := writeBatch(outw, opts, batch); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return flushExit(outw, stderr, 0)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// writeBatch renders the whole run in the requested format. JSON with
// --beta emits a single batch document; everything else streams reports
// through the format writer, with the beta matrix (JSONL only) as a
// final `{"beta": ...}` line.
func writeBatch(w io.Writer, opts cli.Options, b pipeline.Batch) error {
	if opts.Output == "json" && b.Beta != nil {
		return output.WriteBatchJSON(w, b)
	}

	in, done, err := writers.StartReportWriter(opts.Output, w, len(b.Reports), !opts.Header)
	if err != nil {
		return err
	}
	for _, rep := range b.Reports {
		in <- *rep
	}
	close(in)
	if err := <-done; err != nil {
		return err
	}

	if b.Beta == nil {
		return nil
	}
	// Non-batch formats have no native beta rendering; the caller asked
	// for it via --beta, so append it as a trailing JSON document
	// (single line for jsonl).
	doc := struct {
		Beta *api.BetaMatrixV1 `json:"beta"`
	}{output.ToAPIBeta(b.Beta)}
	if opts.Output == "jsonl" {
		return json.NewEncoder(w).Encode(doc)
	}
	return jsonio.EncodePretty(w, doc)
}

func pipelineOptions(o cli.Options) pipeline.Options {
	p := pipeline.DefaultOptions()
	p.Quality.MinLength = o.MinLength
	p.Quality.MinAvgQuality = o.MinQuality
	p.Quality.MaxAmbiguousFraction = o.MaxAmbiguous
	p.Clustering.IdentityThreshold = o.Identity
	p.Clustering.MinClusterSize = o.MinClusterSize
	p.Taxonomy.Filter.MinPercentIdentity = o.MinPercID
	p.Taxonomy.Filter.MinQueryCoverage = o.MinCov
	p.Taxonomy.Database = o.Database
	p.Taxonomy.Timeout = o.Timeout
	if o.Threads > 0 {
		p.Taxonomy.Workers = o.Threads
	}
	p.Contamination.Environment = o.Environment
	p.Seed = o.Seed
	return p
}

func flushExit(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}
