package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// column order of the input file
var columns = [...]string{"period", "region", "sub_region", "child", "youth", "adult"}

// Parse turns the raw CSV payload into records. The first line is a header and
// is discarded. Rows that cannot be parsed are skipped and reported; blank
// lines are ignored.
func Parse(raw string) ([]Record, []*RowError) {
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return nil, nil
	}
	out := make([]Record, 0, len(lines)-1)
	var rejected []*RowError
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseRow(line, i+2)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		out = append(out, rec)
	}
	return out, rejected
}

// Load parses a payload and tags it with a checksum so derived results can be
// keyed by dataset identity.
func Load(raw []byte) Dataset {
	recs, rejected := Parse(string(raw))
	return Dataset{
		ID:       ChecksumHex(raw),
		Records:  recs,
		Rejected: rejected,
	}
}

func parseRow(line string, lineNo int) (Record, *RowError) {
	fields := SplitFields(line)
	if len(fields) < len(columns) {
		return Record{}, &RowError{Line: lineNo, Err: ErrShortRow}
	}
	var counts [3]int
	for k := range counts {
		col := 3 + k
		n, err := strconv.Atoi(fields[col])
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				err = ne.Err
			}
			return Record{}, &RowError{Line: lineNo, Field: columns[col], Value: fields[col], Err: err}
		}
		if n < 0 {
			return Record{}, &RowError{Line: lineNo, Field: columns[col], Value: fields[col], Err: ErrNegativeCount}
		}
		counts[k] = n
	}
	return Record{
		Period:    fields[0],
		Region:    NormalizeName(fields[1]),
		SubRegion: NormalizeName(fields[2]),
		Child:     counts[0],
		Youth:     counts[1],
		Adult:     counts[2],
	}, nil
}

// SplitFields splits one line on commas outside double quotes. Quote characters
// are dropped and every field is trimmed.
func SplitFields(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// NormalizeName lower-cases a name and capitalizes the first character of each
// space-separated word, so "UTTAR PRADESH" and "uttar pradesh" collapse.
func NormalizeName(s string) string {
	// Casers keep state and are not shared.
	words := strings.Split(cases.Lower(language.Und).String(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// ChecksumHex returns a SHA-256 checksum as hex.
func ChecksumHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
