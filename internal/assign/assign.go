// internal/assign/assign.go

// Package assign fans per-ASV taxonomic lookups out to the matcher with
// bounded concurrency. Each worker writes into its own result slot, so
// no locks are needed and the output keeps the input ASV order no matter
// how the network interleaves completions.
package assign

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edna-core/cluster"
	"edna-core/taxonomy"

	"edna/internal/matcher"
)

// Options controls the assignment batch.
type Options struct {
	// Workers bounds concurrent outstanding matcher calls.
	Workers int
	// Timeout bounds one matcher call; exceeded calls become unassigned
	// ASVs, not a hung pipeline.
	Timeout time.Duration
	// Filter is the post-hoc hit acceptance gate.
	Filter taxonomy.FilterOptions
	// Database names the reference database to search.
	Database string
	// Method labels the assignments (e.g. "blast").
	Method string
}

// DefaultOptions returns the conventional batch settings.
func DefaultOptions() Options {
	return Options{
		Workers:  6,
		Timeout:  3 * time.Minute,
		Filter:   taxonomy.DefaultFilterOptions(),
		Database: "nt",
		Method:   "blast",
	}
}

// Validate rejects nonsensical batch settings.
func (o Options) Validate() error {
	if o.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", o.Workers)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", o.Timeout)
	}
	return o.Filter.Validate()
}

// Result aggregates one batch.
type Result struct {
	Assignments       []taxonomy.Assignment // one per input ASV, in input order
	AssignedCount     int
	UnassignedCount   int
	AverageConfidence float64 // mean over assigned ASVs; 0 when none
	Summary           map[string]int
}

// Batch assigns taxonomy to every ASV. A single ASV failure never aborts
// the batch: matcher errors and timeouts yield unassigned entries with a
// recorded reason. Cancelling ctx stops issuing new requests (in-flight
// calls finish or time out on their own) and the remaining ASVs come
// back unassigned.
func Batch(ctx context.Context, client matcher.Client, asvs []cluster.ASV, o Options) Result {
	slots := make([]taxonomy.Assignment, len(asvs))

	if client == nil {
		for i, a := range asvs {
			slots[i] = taxonomy.Assignment{ASVID: a.ID, Reason: "no matcher configured"}
		}
		return summarize(slots)
	}

	workers := o.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicVal any
	)
	// A panicking client is a bug, not a domain condition. Catch it per
	// call so the worker keeps draining (the feeder must never block on
	// dead workers), then re-raise on the caller's goroutine.
	runOne := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				panicMu.Lock()
				if panicVal == nil {
					panicVal = r
				}
				panicMu.Unlock()
				slots[i] = taxonomy.Assignment{ASVID: asvs[i].ID, Reason: "internal error"}
			}
		}()
		slots[i] = assignOne(ctx, client, asvs[i], o)
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				runOne(i)
			}
		}()
	}

feed:
	for i := range asvs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if panicVal != nil {
		panic(panicVal)
	}

	// Anything never dispatched (cancellation) is marked unassigned.
	for i := range slots {
		if slots[i].ASVID == "" {
			slots[i] = taxonomy.Assignment{ASVID: asvs[i].ID, Reason: "canceled before dispatch"}
		}
	}
	return summarize(slots)
}

func assignOne(ctx context.Context, client matcher.Client, a cluster.ASV, o Options) taxonomy.Assignment {
	// Cancellation only gates dispatch (the feeder's select). A call
	// already in flight keeps going under its own timeout rather than
	// being torn down mid-request.
	callCtx := context.WithoutCancel(ctx)
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, o.Timeout)
		defer cancel()
	}

	resp, err := client.Search(callCtx, matcher.Request{
		Sequences: []matcher.QuerySeq{{ID: a.ID, Sequence: a.Sequence}},
		Database:  o.Database,
		Options: matcher.RequestOptions{
			MinPercentIdentity: o.Filter.MinPercentIdentity,
			MinQueryCoverage:   o.Filter.MinQueryCoverage,
			MinLength:          o.Filter.MinAlignmentLength,
		},
	})
	if err != nil {
		return taxonomy.Assignment{ASVID: a.ID, Reason: fmt.Sprintf("matcher call failed: %v", err)}
	}

	// Keep only this ASV's hits; batch endpoints may echo others.
	hits := resp.Hits[:0:0]
	for _, h := range resp.Hits {
		if h.QueryID == "" || h.QueryID == a.ID {
			hits = append(hits, h)
		}
	}
	return taxonomy.Assign(a.ID, hits, o.Filter, o.Method)
}

func summarize(slots []taxonomy.Assignment) Result {
	res := Result{Assignments: slots, Summary: taxonomy.Summarize(slots)}
	var confSum float64
	for _, a := range slots {
		if a.Assigned() {
			res.AssignedCount++
			confSum += a.Confidence
		} else {
			res.UnassignedCount++
		}
	}
	if res.AssignedCount > 0 {
		res.AverageConfidence = confSum / float64(res.AssignedCount)
	}
	return res
}
