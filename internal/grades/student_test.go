package grades

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudent_Statistics(t *testing.T) {
	s := NewStudent("Ana", 80, 90, 100)

	assert.InDelta(t, 90.0, s.Average(), 1e-9)

	hi, ok := s.Highest()
	require.True(t, ok)
	assert.Equal(t, 100.0, hi)

	lo, ok := s.Lowest()
	require.True(t, ok)
	assert.Equal(t, 80.0, lo)

	med, ok := s.Median()
	require.True(t, ok)
	assert.Equal(t, 90.0, med)
}

func TestStudent_EmptyGrades(t *testing.T) {
	s := NewStudent("Bo")

	assert.Equal(t, 0.0, s.Average(), "average of no grades is zero by convention")

	_, ok := s.Highest()
	assert.False(t, ok)
	_, ok = s.Lowest()
	assert.False(t, ok)
	_, ok = s.Median()
	assert.False(t, ok)

	sum := s.Summary()
	assert.False(t, sum.HasGrades)
	assert.Equal(t, 0, sum.Count)
	assert.Equal(t, "Bo", sum.Name)
}

func TestStudent_Median(t *testing.T) {
	tests := []struct {
		name   string
		grades []float64
		want   float64
	}{
		{"single", []float64{42}, 42},
		{"odd unsorted", []float64{100, 20, 50}, 50},
		{"even averages middle pair", []float64{70, 80}, 75},
		{"even unsorted", []float64{90, 10, 40, 60}, 50},
		{"duplicates", []float64{65, 65, 65, 65}, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStudent("x", tt.grades...)
			got, ok := s.Median()
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestStudent_MedianDoesNotReorderGrades(t *testing.T) {
	s := NewStudent("x", 90, 10, 40)
	_, _ = s.Median()
	assert.Equal(t, []float64{90, 10, 40}, s.Grades)
}

func TestStudent_AverageIsSumOverCount(t *testing.T) {
	sequences := [][]float64{
		{0},
		{100, 0},
		{12.5, 99.25, 73, 64.75},
		{33, 33, 34},
	}

	for _, seq := range sequences {
		s := NewStudent("x", seq...)
		var sum float64
		for _, g := range seq {
			sum += g
		}
		assert.InDelta(t, sum/float64(len(seq)), s.Average(), 1e-9)
	}
}

func TestStudent_LowestMedianHighestOrdering(t *testing.T) {
	sequences := [][]float64{
		{50},
		{100, 0},
		{1, 2, 3, 4, 5, 6, 7},
		{88.5, 12, 47, 47, 99, 0.5},
	}

	for _, seq := range sequences {
		s := NewStudent("x", seq...)
		lo, _ := s.Lowest()
		med, _ := s.Median()
		hi, _ := s.Highest()
		assert.LessOrEqual(t, lo, med)
		assert.LessOrEqual(t, med, hi)
	}
}

func TestStudent_AddGrade(t *testing.T) {
	s := NewStudent("Cy")
	s.AddGrade(70)
	s.AddGrade(80)
	assert.Equal(t, []float64{70, 80}, s.Grades)
}

func TestStudent_Clone(t *testing.T) {
	s := NewStudent("Cy", 70, 80)
	c := s.Clone()
	c.Grades[0] = 1
	c.Name = "Dee"

	assert.Equal(t, "Cy", s.Name)
	assert.Equal(t, []float64{70, 80}, s.Grades)
}

func TestNewStudent_CopiesGrades(t *testing.T) {
	in := []float64{1, 2}
	s := NewStudent("x", in...)
	in[0] = 99
	assert.Equal(t, 1.0, s.Grades[0])
}

func TestValidGrade(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{100, true},
		{55.5, true},
		{-5, false},
		{101, false},
		{100.0001, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidGrade(tt.v), "ValidGrade(%v)", tt.v)
	}
}
