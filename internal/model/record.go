package model

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoMarks       = errors.New("record needs at least one mark")
	ErrUnknownPolicy = errors.New("unknown grading policy")
)

// Policy selects how a record's average is turned into a grade label.
type Policy int

const (
	// Standard grades on A/B/C/F letter thresholds.
	Standard Policy = iota
	// Alternate grades on a single Pass/Fail threshold.
	Alternate
)

// Label is the student type shown on the form.
func (p Policy) Label() string {
	switch p {
	case Standard:
		return "Normal"
	case Alternate:
		return "Graduate"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func (p Policy) String() string {
	switch p {
	case Standard:
		return "standard"
	case Alternate:
		return "alternate"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Policies lists the selectable policies in form order.
func Policies() []Policy {
	return []Policy{Standard, Alternate}
}

// ParsePolicy accepts a form label or a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "standard":
		return Standard, nil
	case "graduate", "alternate":
		return Alternate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Record is one student's name, roll identifier and marks.
type Record struct {
	Name   string
	Roll   string
	Policy Policy
	marks  []int
}

// NewRecord builds a record. Name and roll are free-form; marks must be non-empty.
func NewRecord(name, roll string, marks []int, policy Policy) (Record, error) {
	if len(marks) == 0 {
		return Record{}, ErrNoMarks
	}
	if _, ok := defaultRegistry[policy]; !ok {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(policy))
	}
	return Record{
		Name:   name,
		Roll:   roll,
		Policy: policy,
		marks:  append([]int(nil), marks...),
	}, nil
}

// Marks returns a copy of the record's marks in entry order.
func (r Record) Marks() []int {
	return append([]int(nil), r.marks...)
}

// Average is the arithmetic mean of the marks, or 0 when there are none.
func (r Record) Average() float64 {
	return Mean(r.marks)
}

// Grade maps the average through the record's policy.
func (r Record) Grade() string {
	return defaultRegistry.Grade(r)
}

// Mean returns the arithmetic mean of marks, or 0 for an empty slice.
func Mean(marks []int) float64 {
	if len(marks) == 0 {
		return 0
	}
	return stat.Mean(toFloats(marks), nil)
}

func toFloats(marks []int) []float64 {
	out := make([]float64, len(marks))
	for i, m := range marks {
		out[i] = float64(m)
	}
	return out
}
