package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// CSVOptions controls AppendCSV.
type CSVOptions struct {
	// Charset is a WHATWG encoding label such as "windows-1252"; empty
	// means UTF-8.
	Charset string
	// Comma is the field separator; 0 sniffs it from the first line.
	Comma rune
	// Header appends the first record through AddHeaderRow.
	Header bool
	// Typed stores numeric-looking fields as numbers instead of text.
	Typed bool
}

// AppendCSV appends every record of r as a row of the active worksheet and
// returns the number of rows added.
func (w *Writer) AppendCSV(r io.Reader, opts CSVOptions) (int, error) {
	if w.active() == nil {
		return 0, ErrNoWorksheet
	}
	if cs := strings.ToLower(opts.Charset); cs != "" && cs != "utf-8" && cs != "utf8" {
		enc, err := htmlindex.Get(cs)
		if err != nil {
			return 0, fmt.Errorf("csv charset %q: %w", opts.Charset, err)
		}
		r = enc.NewDecoder().Reader(r)
	}

	br := bufio.NewReaderSize(r, 1<<16)
	comma := opts.Comma
	if comma == 0 {
		head, err := br.Peek(4096)
		if err != nil && len(head) == 0 && !errors.Is(err, io.EOF) {
			return 0, err
		}
		comma = sniffComma(head)
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	n := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("csv: %w", err)
		}
		var row *Row
		if n == 0 && opts.Header {
			row = w.AddHeaderRow()
		} else {
			row = w.AddRow()
		}
		for _, field := range rec {
			if opts.Typed && !(n == 0 && opts.Header) {
				row.Add(csvValue(field))
			} else {
				row.Add(field)
			}
		}
		if err := row.Err(); err != nil {
			return n, err
		}
		n++
	}
	w.log.Debug("appended csv", "rows", n, "comma", string(comma))
	return n, nil
}

// sniffComma picks the most frequent candidate separator on the first
// line outside quotes, ',' when none occurs.
func sniffComma(head []byte) rune {
	line := string(head)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	counts := map[rune]int{}
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && strings.ContainsRune(",;\t|", r):
			counts[r]++
		}
	}
	best, bestN := ',', 0
	for _, r := range ",;\t|" {
		if counts[r] > bestN {
			best, bestN = r, counts[r]
		}
	}
	return best
}

// csvValue converts a field to a number when it round-trips as one.
// Fields with leading zeros such as zip codes stay text.
func csvValue(field string) any {
	s := strings.TrimSpace(field)
	if s == "" {
		return field
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return field
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return field
	}
	return f
}
