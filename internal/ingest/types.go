package ingest

import (
	"errors"
	"fmt"
)

// Record is one parsed row of regional update activity.
type Record struct {
	Period    string `json:"period"` // YYYY-MM
	Region    string `json:"region"`
	SubRegion string `json:"sub_region"`
	Child     int    `json:"child"` // 0-5
	Youth     int    `json:"youth"` // 5-17
	Adult     int    `json:"adult"` // 18+
}

// Total is the sum of the three bracket counts.
func (r Record) Total() int {
	return r.Child + r.Youth + r.Adult
}

var (
	ErrShortRow      = errors.New("row has fewer than 6 fields")
	ErrNegativeCount = errors.New("count is negative")
)

// RowError describes a data line that was rejected during parsing.
type RowError struct {
	Line  int    `json:"line"` // 1-based, header is line 1
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
	Err   error  `json:"-"`
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s=%q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Dataset is a parsed payload together with its identity.
type Dataset struct {
	ID       string      `json:"id"`
	Records  []Record    `json:"records"`
	Rejected []*RowError `json:"rejected,omitempty"`
}
