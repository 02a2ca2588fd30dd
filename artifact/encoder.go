package artifact

import (
	"errors"
	"fmt"
	"sort"

	"loan-recovery/domain"
)

var (
	ErrUnknownCategory = errors.New("unseen label")
	ErrUnknownCode     = errors.New("unknown class code")
	ErrMissingEncoder  = errors.New("missing encoder")
	ErrUnexpectedField = errors.New("unexpected encoder field")
)

// LabelEncoder maps category strings to their index in the sorted list
// of fitted classes.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder fits an encoder over classes. Duplicates are rejected.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder has no classes")
	}

	sorted := append([]string(nil), classes...)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, c := range sorted {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		index[c] = i
	}
	return &LabelEncoder{classes: sorted, index: index}, nil
}

func (e *LabelEncoder) Transform(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("%w %q, known: %v", ErrUnknownCategory, value, e.classes)
	}
	return code, nil
}

func (e *LabelEncoder) InverseTransform(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w %d", ErrUnknownCode, code)
	}
	return e.classes[code], nil
}

// Classes returns a copy of the fitted vocabulary in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// EncoderSet is the registry of fitted encoders, one per domain.Field in
// domain.EncoderFields.
type EncoderSet struct {
	encoders map[domain.Field]*LabelEncoder
}

// NewEncoderSet builds the registry from raw class lists. Every field in
// domain.EncoderFields must be present and no other field may appear.
func NewEncoderSet(raw map[string][]string) (*EncoderSet, error) {
	set := &EncoderSet{encoders: make(map[domain.Field]*LabelEncoder, len(domain.EncoderFields))}

	for name, classes := range raw {
		f := domain.Field(name)
		if !domain.IsEncoderField(f) {
			return nil, fmt.Errorf("%w %q", ErrUnexpectedField, name)
		}
		enc, err := NewLabelEncoder(classes)
		if err != nil {
			return nil, fmt.Errorf("encoder %s: %w", name, err)
		}
		set.encoders[f] = enc
	}

	for _, f := range domain.EncoderFields {
		if _, ok := set.encoders[f]; !ok {
			return nil, fmt.Errorf("%w %s", ErrMissingEncoder, f)
		}
	}
	return set, nil
}

// Encode transforms value with the encoder registered for f.
func (s *EncoderSet) Encode(f domain.Field, value string) (int, error) {
	enc, ok := s.encoders[f]
	if !ok {
		return 0, fmt.Errorf("%w %s", ErrMissingEncoder, f)
	}
	return enc.Transform(value)
}

// Decode maps a predicted class code back to the recovery status label.
func (s *EncoderSet) Decode(code int) (string, error) {
	return s.encoders[domain.FieldRecoveryStatus].InverseTransform(code)
}

func (s *EncoderSet) Vocabulary(f domain.Field) []string {
	enc, ok := s.encoders[f]
	if !ok {
		return nil
	}
	return enc.Classes()
}
