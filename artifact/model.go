package artifact

import (
	"errors"
	"fmt"

	"loan-recovery/domain"
)

// LogisticRegression is a fitted linear classifier. With a single
// coefficient row it is binary and picks classes[1] on a positive
// decision value; otherwise it is one-vs-rest and picks the row with the
// highest decision value.
type LogisticRegression struct {
	classes   []int
	coef      []domain.FeatureVector
	intercept []float64
}

func NewLogisticRegression(classes []int, coef [][]float64, intercept []float64) (*LogisticRegression, error) {
	if len(classes) < 2 {
		return nil, errors.New("classifier needs at least two classes")
	}

	rows := len(classes)
	if rows == 2 {
		rows = 1
	}
	if len(coef) != rows || len(intercept) != rows {
		return nil, fmt.Errorf("%w: %d classes need %d coefficient rows and intercepts, got %d and %d",
			ErrDimension, len(classes), rows, len(coef), len(intercept))
	}

	m := &LogisticRegression{
		classes:   append([]int(nil), classes...),
		coef:      make([]domain.FeatureVector, rows),
		intercept: append([]float64(nil), intercept...),
	}
	for r, row := range coef {
		if len(row) != domain.NumFeatures {
			return nil, fmt.Errorf("%w: coefficient row %d has %d values, want %d",
				ErrDimension, r, len(row), domain.NumFeatures)
		}
		copy(m.coef[r][:], row)
	}
	return m, nil
}

func (m *LogisticRegression) decision(row int, v domain.FeatureVector) float64 {
	z := m.intercept[row]
	for i := range v {
		z += m.coef[row][i] * v[i]
	}
	return z
}

func (m *LogisticRegression) Predict(v domain.FeatureVector) (int, error) {
	if len(m.coef) == 1 {
		if m.decision(0, v) > 0 {
			return m.classes[1], nil
		}
		return m.classes[0], nil
	}

	best := 0
	bestScore := m.decision(0, v)
	for r := 1; r < len(m.coef); r++ {
		if z := m.decision(r, v); z > bestScore {
			best, bestScore = r, z
		}
	}
	return m.classes[best], nil
}

func (m *LogisticRegression) Classes() []int {
	return append([]int(nil), m.classes...)
}
