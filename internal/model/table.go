package model

import "fmt"

// Columns of the tabular projection, in display and CSV order.
var Columns = []string{"Name", "Roll", "Marks", "Grade"}

// Row is one record as shown in the table. Grade is derived at projection time.
type Row struct {
	Name  string `json:"name"`
	Roll  string `json:"roll"`
	Marks []int  `json:"marks"`
	Grade string `json:"grade"`
}

// MarksText renders the marks the way they appear in the table and CSV.
func (r Row) MarksText() string {
	return FormatMarks(r.Marks)
}

// Table is a read-only view of a store, rows in insertion order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Project builds the table for records, grading each row through reg.
func Project(records []Record, reg Registry) Table {
	t := Table{
		Columns: append([]string(nil), Columns...),
		Rows:    make([]Row, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, Row{
			Name:  r.Name,
			Roll:  r.Roll,
			Marks: r.Marks(),
			Grade: reg.Grade(r),
		})
	}
	return t
}

// AllMarks concatenates the marks of every row.
func (t Table) AllMarks() []int {
	var all []int
	for _, r := range t.Rows {
		all = append(all, r.Marks...)
	}
	return all
}

// SubjectCount is the largest number of marks held by any row.
func (t Table) SubjectCount() int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Marks) > n {
			n = len(r.Marks)
		}
	}
	return n
}

// SubjectNames returns Sub1..SubN for the table's subject count.
func (t Table) SubjectNames() []string {
	n := t.SubjectCount()
	names := make([]string, n)
	for i := range names {
		names[i] = SubjectName(i)
	}
	return names
}

// SubjectName is the column name for the zero-based subject index i.
func SubjectName(i int) string {
	return fmt.Sprintf("Sub%d", i+1)
}

// GradeCounts counts rows per grade label, with labels in first-seen order.
func (t Table) GradeCounts() ([]string, map[string]int) {
	var labels []string
	counts := make(map[string]int)
	for _, r := range t.Rows {
		if _, seen := counts[r.Grade]; !seen {
			labels = append(labels, r.Grade)
		}
		counts[r.Grade]++
	}
	return labels, counts
}
