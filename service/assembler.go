package service

import (
	"loan-recovery/domain"
)

// Scaler applies the fitted feature scaling.
type Scaler interface {
	Transform(v domain.FeatureVector) (domain.FeatureVector, error)
}

// Classifier returns the class code for one scaled row.
type Classifier interface {
	Predict(v domain.FeatureVector) (int, error)
}

// Encoders is the fitted label encoder registry.
type Encoders interface {
	Encode(f domain.Field, value string) (int, error)
	Decode(code int) (string, error)
	Vocabulary(f domain.Field) []string
}

// AssembleFeatures encodes the categorical inputs and lays out the
// feature vector: twelve numeric columns followed by the five codes in
// domain.CategoricalFields order.
func AssembleFeatures(rec domain.BorrowerRecord, enc Encoders) (domain.FeatureVector, error) {
	var v domain.FeatureVector

	numeric := rec.Numeric()
	copy(v[:domain.NumNumericFeatures], numeric[:])

	for i, f := range domain.CategoricalFields {
		value, _ := rec.Categorical(f)
		code, err := enc.Encode(f, value)
		if err != nil {
			return domain.FeatureVector{}, &EncodingError{
				Field: f,
				Value: value,
				Known: enc.Vocabulary(f),
				Err:   err,
			}
		}
		v[domain.NumNumericFeatures+i] = float64(code)
	}
	return v, nil
}
