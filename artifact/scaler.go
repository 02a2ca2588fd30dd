package artifact

import (
	"fmt"

	"loan-recovery/domain"
)

// StandardScaler applies (x - mean) / scale per feature.
type StandardScaler struct {
	mean  domain.FeatureVector
	scale domain.FeatureVector
}

// NewStandardScaler copies the fitted statistics. A zero scale is stored
// as 1 so constant training columns pass through centred.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) != domain.NumFeatures || len(scale) != domain.NumFeatures {
		return nil, fmt.Errorf("%w: scaler has %d means and %d scales, want %d",
			ErrDimension, len(mean), len(scale), domain.NumFeatures)
	}

	s := &StandardScaler{}
	for i := 0; i < domain.NumFeatures; i++ {
		s.mean[i] = mean[i]
		s.scale[i] = scale[i]
		if s.scale[i] == 0 {
			s.scale[i] = 1
		}
	}
	return s, nil
}

func (s *StandardScaler) Transform(v domain.FeatureVector) (domain.FeatureVector, error) {
	var out domain.FeatureVector
	for i := range v {
		out[i] = (v[i] - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
