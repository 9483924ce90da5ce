// internal/fastx/reader.go

// Package fastx reads FASTA and FASTQ inputs, plain or gzipped, and
// maps records onto the core read type. Format is detected from the
// first record byte ('>' FASTA, '@' FASTQ), not the file name.
package fastx

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"edna-core/seq"
)

// ReadFile loads every record from path. "-" reads stdin; a ".gz"
// suffix or gzip magic triggers transparent decompression.
func ReadFile(path string) ([]seq.Read, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	reads, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reads, nil
}

// Parse reads FASTA or FASTQ records from r.
func Parse(r io.Reader) ([]seq.Read, error) {
	br := bufio.NewReader(r)

	first, err := br.Peek(1)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	switch first[0] {
	case '>':
		return parseFASTA(br)
	case '@':
		return parseFASTQ(br)
	default:
		return nil, fmt.Errorf("unrecognized format: record starts with %q, want '>' or '@'", first[0])
	}
}

func parseFASTA(br *bufio.Reader) ([]seq.Read, error) {
	var (
		reads []seq.Read
		id    string
		buf   []byte
	)
	flush := func() {
		if id == "" {
			return
		}
		reads = append(reads, seq.Read{ID: id, Sequence: string(bytes.ToUpper(buf))})
	}
	for {
		line, err := br.ReadBytes('\n')
		eof := err == io.EOF
		if err != nil && !eof {
			return nil, err
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			if line[0] == '>' {
				flush()
				id = headerID(line[1:])
				buf = buf[:0]
			} else {
				buf = append(buf, line...)
			}
		}
		if eof {
			break
		}
	}
	flush()
	return reads, nil
}

func parseFASTQ(br *bufio.Reader) ([]seq.Read, error) {
	var reads []seq.Read
	for {
		header, err := br.ReadBytes('\n')
		if err == io.EOF && len(bytes.TrimSpace(header)) == 0 {
			break
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		header = bytes.TrimRight(header, "\r\n")
		if len(header) == 0 || header[0] != '@' {
			return nil, fmt.Errorf("record %d: malformed header %q", len(reads)+1, header)
		}

		sequence, err := fastqLine(br)
		if err != nil {
			return nil, fmt.Errorf("record %d: truncated sequence", len(reads)+1)
		}
		plus, err := fastqLine(br)
		if err != nil || len(plus) == 0 || plus[0] != '+' {
			return nil, fmt.Errorf("record %d: missing '+' separator", len(reads)+1)
		}
		quality, err := fastqLine(br)
		if err != nil {
			return nil, fmt.Errorf("record %d: truncated quality", len(reads)+1)
		}
		if len(quality) != len(sequence) {
			return nil, fmt.Errorf("record %d: quality length %d != sequence length %d",
				len(reads)+1, len(quality), len(sequence))
		}

		reads = append(reads, seq.Read{
			ID:       headerID(header[1:]),
			Sequence: strings.ToUpper(string(sequence)),
			Quality:  string(quality),
		})
	}
	return reads, nil
}

func fastqLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes('\n')
	line = bytes.TrimRight(line, "\r\n")
	if err == io.EOF && len(line) > 0 {
		return line, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

func headerID(b []byte) string {
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

/* ---------------- small helpers ---------------- */

func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	// Sniff the gzip magic for files without the suffix.
	br := bufio.NewReader(fh)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{Reader: br, Closer: fh}, nil
}
