package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardGradeBoundaries(t *testing.T) {
	tests := []struct {
		mark int
		want string
	}{
		{100, "A"},
		{90, "A"},
		{89, "B"},
		{75, "B"},
		{74, "C"},
		{50, "C"},
		{49, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		rec, err := NewRecord("Alice", "R1", []int{tt.mark}, Standard)
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.Grade(), "mark %d", tt.mark)
	}
}

func TestAlternateGradeBoundaries(t *testing.T) {
	pass, err := NewRecord("Bob", "R2", []int{40}, Alternate)
	require.NoError(t, err)
	assert.Equal(t, "Pass", pass.Grade())

	fail, err := NewRecord("Bob", "R2", []int{39}, Alternate)
	require.NoError(t, err)
	assert.Equal(t, "Fail", fail.Grade())
}

func TestGradeUsesMean(t *testing.T) {
	// (89 + 91) / 2 = 90
	rec, err := NewRecord("Cara", "R3", []int{89, 91}, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, rec.Average(), 1e-9)
	assert.Equal(t, "A", rec.Grade())

	// (74 + 75) / 2 = 74.5
	rec, err = NewRecord("Dan", "R4", []int{74, 75}, Standard)
	require.NoError(t, err)
	assert.Equal(t, "C", rec.Grade())
}

func TestNewRecordRejectsEmptyMarks(t *testing.T) {
	_, err := NewRecord("Eve", "R5", nil, Standard)
	assert.True(t, errors.Is(err, ErrNoMarks))

	_, err = NewRecord("Eve", "R5", []int{}, Alternate)
	assert.True(t, errors.Is(err, ErrNoMarks))
}

func TestNewRecordRejectsUnknownPolicy(t *testing.T) {
	_, err := NewRecord("Eve", "R5", []int{50}, Policy(7))
	assert.True(t, errors.Is(err, ErrUnknownPolicy))
}

func TestZeroRecordHasNoGrade(t *testing.T) {
	var rec Record
	assert.Equal(t, "", rec.Grade())
	assert.Equal(t, 0.0, rec.Average())
}

func TestRecordCopiesMarks(t *testing.T) {
	marks := []int{80, 90}
	rec, err := NewRecord("Finn", "R6", marks, Standard)
	require.NoError(t, err)

	marks[0] = 0
	assert.Equal(t, []int{80, 90}, rec.Marks())

	out := rec.Marks()
	out[1] = 0
	assert.Equal(t, []int{80, 90}, rec.Marks())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"Normal", Standard, false},
		{"standard", Standard, false},
		{" Graduate ", Alternate, false},
		{"ALTERNATE", Alternate, false},
		{"postdoc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownPolicy, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPolicyLabels(t *testing.T) {
	assert.Equal(t, "Normal", Standard.Label())
	assert.Equal(t, "Graduate", Alternate.Label())
	assert.Equal(t, []Policy{Standard, Alternate}, Policies())
}

func TestRegistryOverride(t *testing.T) {
	reg := DefaultRegistry()
	reg[Standard] = func(float64) string { return "X" }

	rec, err := NewRecord("Gus", "R7", []int{95}, Standard)
	require.NoError(t, err)
	assert.Equal(t, "X", reg.Grade(rec))
	assert.Equal(t, "A", rec.Grade())
}
