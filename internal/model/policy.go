package model

// GradeFunc maps an average mark to a grade label.
type GradeFunc func(avg float64) string

// Registry holds the grading function for each policy.
type Registry map[Policy]GradeFunc

var defaultRegistry = DefaultRegistry()

// DefaultRegistry returns the standard letter grades and the alternate pass/fail rule.
func DefaultRegistry() Registry {
	return Registry{
		Standard:  standardGrade,
		Alternate: alternateGrade,
	}
}

// Grade computes the label for r. Records without marks, or with a policy the
// registry does not know, get an empty label.
func (reg Registry) Grade(r Record) string {
	if len(r.marks) == 0 {
		return ""
	}
	fn, ok := reg[r.Policy]
	if !ok {
		return ""
	}
	return fn(r.Average())
}

// Thresholds are inclusive lower bounds, checked highest first.
func standardGrade(avg float64) string {
	switch {
	case avg >= 90:
		return "A"
	case avg >= 75:
		return "B"
	case avg >= 50:
		return "C"
	default:
		return "F"
	}
}

func alternateGrade(avg float64) string {
	if avg >= 40 {
		return "Pass"
	}
	return "Fail"
}
