package service

import (
	"fmt"

	"loan-recovery/domain"
)

// EncodingError reports a categorical value outside the fitted
// vocabulary of its encoder.
type EncodingError struct {
	Field domain.Field
	Value string
	Known []string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s %q: not among fitted classes %v", e.Field, e.Value, e.Known)
}

func (e *EncodingError) Unwrap() error { return e.Err }

const (
	StageScale   = "scale"
	StagePredict = "predict"
	StageDecode  = "decode"
	StagePanic   = "panic"
)

// PredictionError wraps a failure in any stage after encoding.
type PredictionError struct {
	Stage string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }
