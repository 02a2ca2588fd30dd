package artifact

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/xeipuuv/gojsonschema"

	"loan-recovery/domain"
)

var (
	ErrSchema       = errors.New("artifact does not match schema")
	ErrDimension    = errors.New("artifact dimension mismatch")
	ErrFeatureOrder = errors.New("feature order mismatch")
)

const (
	DefaultModelFile    = "logistic_model.json"
	DefaultScalerFile   = "scaler.json"
	DefaultEncodersFile = "label_encoders.json"
)

type Paths struct {
	Model    string
	Scaler   string
	Encoders string
}

// PathsIn returns the default artifact file names under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Model:    filepath.Join(dir, DefaultModelFile),
		Scaler:   filepath.Join(dir, DefaultScalerFile),
		Encoders: filepath.Join(dir, DefaultEncodersFile),
	}
}

// Bundle is the immutable set of fitted artifacts shared by every request.
type Bundle struct {
	Model    *LogisticRegression
	Scaler   *StandardScaler
	Encoders *EncoderSet

	// Checksums holds the xxhash of each file keyed by its path.
	Checksums   map[string]string
	Fingerprint string
}

type modelFile struct {
	Type         string      `json:"type"`
	FeatureNames []string    `json:"feature_names"`
	Classes      []int       `json:"classes"`
	Coef         [][]float64 `json:"coef"`
	Intercept    []float64   `json:"intercept"`
}

type scalerFile struct {
	Type         string    `json:"type"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// Load reads, validates and decodes the three artifacts. Any error means
// the process cannot serve predictions.
func Load(paths Paths) (*Bundle, error) {
	b := &Bundle{Checksums: make(map[string]string, 3)}
	fingerprint := xxhash.New()

	read := func(path, schema string) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
		}
		if err := validate(data, schema); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", path, err)
		}
		sum := checksum(data)
		b.Checksums[path] = sum
		fingerprint.WriteString(sum)
		return data, nil
	}

	data, err := read(paths.Model, modelSchema)
	if err != nil {
		return nil, err
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to decode classifier %s: %w", paths.Model, err)
	}
	if err := checkFeatureOrder(mf.FeatureNames); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", paths.Model, err)
	}
	if b.Model, err = NewLogisticRegression(mf.Classes, mf.Coef, mf.Intercept); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", paths.Model, err)
	}

	if data, err = read(paths.Scaler, scalerSchema); err != nil {
		return nil, err
	}
	var sf scalerFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to decode scaler %s: %w", paths.Scaler, err)
	}
	if err := checkFeatureOrder(sf.FeatureNames); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", paths.Scaler, err)
	}
	if b.Scaler, err = NewStandardScaler(sf.Mean, sf.Scale); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", paths.Scaler, err)
	}

	if data, err = read(paths.Encoders, encodersSchema); err != nil {
		return nil, err
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode encoders %s: %w", paths.Encoders, err)
	}
	if b.Encoders, err = NewEncoderSet(raw); err != nil {
		return nil, fmt.Errorf("encoders %s: %w", paths.Encoders, err)
	}

	for _, code := range b.Model.Classes() {
		if _, err := b.Encoders.Decode(code); err != nil {
			return nil, fmt.Errorf("classifier class not decodable by %s encoder: %w",
				domain.FieldRecoveryStatus, err)
		}
	}

	b.Fingerprint = hex.EncodeToString(fingerprint.Sum(nil))
	return b, nil
}

func validate(data []byte, schema string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrSchema, strings.Join(errs, "; "))
	}
	return nil
}

func checkFeatureOrder(names []string) error {
	if len(names) != domain.NumFeatures {
		return fmt.Errorf("%w: manifest lists %d features, want %d",
			ErrFeatureOrder, len(names), domain.NumFeatures)
	}
	for i, name := range names {
		if name != domain.FeatureNames[i] {
			return fmt.Errorf("%w: position %d is %q, want %q",
				ErrFeatureOrder, i, name, domain.FeatureNames[i])
		}
	}
	return nil
}

func checksum(data []byte) string {
	digest := xxhash.New()
	digest.Write(data)
	return hex.EncodeToString(digest.Sum(nil))
}
