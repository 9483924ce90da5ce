// internal/jsonio/jsonio.go

// Package jsonio holds the shared JSON plumbing for report writers: a
// pretty encoder for single documents and a goroutine-backed JSONL
// encoder for streams.
package jsonio

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Shared 64 KiB write buffer across stream writers; the encoder itself
// is cheap and recreated per goroutine.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// StartStream spins up an encoder goroutine for values of type T.
// encode converts one value to its wire form and encodes it; isBroken
// recognizes broken/closed-pipe errors so early consumer exits (head,
// less) are not reported as failures.
func StartStream[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		for v := range in {
			if err := encode(enc, v); err != nil {
				if isBroken(err) {
					for range in {
					}
					done <- nil
					return
				}
				done <- err
				return
			}
		}
		if err := bw.Flush(); err != nil && !isBroken(err) {
			done <- err
			return
		}
		done <- nil
	}()

	return in, done
}
