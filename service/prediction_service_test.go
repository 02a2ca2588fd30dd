package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"loan-recovery/artifact"
	"loan-recovery/domain"
	"loan-recovery/metrics"
	"loan-recovery/repository"
)

type MockScaler struct {
	mock.Mock
}

func (m *MockScaler) Transform(v domain.FeatureVector) (domain.FeatureVector, error) {
	args := m.Called(v)
	return args.Get(0).(domain.FeatureVector), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(v domain.FeatureVector) (int, error) {
	args := m.Called(v)
	return args.Int(0), args.Error(1)
}

// identityScaler and sumClassifier give a deterministic fake model.
type identityScaler struct{}

func (identityScaler) Transform(v domain.FeatureVector) (domain.FeatureVector, error) { return v, nil }

type sumClassifier struct{ calls int }

func (c *sumClassifier) Predict(v domain.FeatureVector) (int, error) {
	c.calls++
	if v[9]+v[10] > 0 {
		return 1, nil
	}
	return 0, nil
}

type panickingClassifier struct{}

func (panickingClassifier) Predict(domain.FeatureVector) (int, error) { panic("index out of range") }

func testEncoders(t *testing.T) *artifact.EncoderSet {
	t.Helper()
	set, err := artifact.NewEncoderSet(map[string][]string{
		"Gender":             {"Female", "Male"},
		"Employment_Type":    {"Salaried", "Self-employed", "Unemployed"},
		"Loan_Type":          {"Auto", "Business", "Home", "Personal"},
		"Collection_Method":  {"Calls", "Debt Collectors", "Legal Notice", "Settlement Offer"},
		"Legal_Action_Taken": {"No", "Yes"},
		"Recovery_Status":    {"Fully Recovered", "Written Off"},
	})
	require.NoError(t, err)
	return set
}

func testBundle(t *testing.T) *artifact.Bundle {
	t.Helper()
	b, err := artifact.Load(artifact.PathsIn("../artifact/testdata"))
	require.NoError(t, err)
	return b
}

// scenarioA is the form submitted with the stock values, calls and no
// legal action.
func scenarioA() domain.BorrowerRecord {
	rec := domain.DefaultBorrowerRecord()
	rec.CollectionMethod = "Calls"
	rec.LegalActionTaken = "No"
	return rec
}

func TestAssembleFeatures_Order(t *testing.T) {
	rec := scenarioA()
	rec.Gender = "Female"
	rec.EmploymentType = "Unemployed"
	rec.LoanType = "Personal"

	v, err := AssembleFeatures(rec, testEncoders(t))
	require.NoError(t, err)

	assert.Len(t, v, domain.NumFeatures)
	assert.Equal(t, domain.FeatureVector{
		30, 30000, 0, 50000, 24, 10.0, 20000, 25000, 2500, 0, 0, 0,
		0, 2, 3, 0, 0,
	}, v)
}

func TestAssembleFeatures_UnknownCategory(t *testing.T) {
	rec := scenarioA()
	rec.Gender = "Other"

	_, err := AssembleFeatures(rec, testEncoders(t))

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, domain.FieldGender, encErr.Field)
	assert.Equal(t, "Other", encErr.Value)
	assert.Equal(t, []string{"Female", "Male"}, encErr.Known)
	assert.ErrorIs(t, err, artifact.ErrUnknownCategory)
}

func TestPredict_PipelineCallsScalerThenClassifier(t *testing.T) {
	enc := testEncoders(t)
	scaler := &MockScaler{}
	classifier := &MockClassifier{}

	raw, err := AssembleFeatures(scenarioA(), enc)
	require.NoError(t, err)
	var scaled domain.FeatureVector
	scaled[0] = 42

	scaler.On("Transform", raw).Return(scaled, nil).Once()
	classifier.On("Predict", scaled).Return(1, nil).Once()

	svc := NewPredictionService(scaler, classifier, enc)
	svc.newID = func() string { return "req-1" }

	rec := scenarioA()
	rec.BorrowerID = "B-17"
	got, err := svc.Predict(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, domain.PredictionResult{
		RequestID:  "req-1",
		BorrowerID: "B-17",
		Status:     "Written Off",
		ClassCode:  1,
	}, got)
	scaler.AssertExpectations(t)
	classifier.AssertExpectations(t)
}

func TestPredict_StageErrors(t *testing.T) {
	enc := testEncoders(t)
	boom := errors.New("boom")

	scaler := &MockScaler{}
	scaler.On("Transform", mock.Anything).Return(domain.FeatureVector{}, boom)
	_, err := NewPredictionService(scaler, &sumClassifier{}, enc).Predict(context.Background(), scenarioA())
	var predErr *PredictionError
	require.ErrorAs(t, err, &predErr)
	assert.Equal(t, StageScale, predErr.Stage)
	assert.ErrorIs(t, err, boom)

	classifier := &MockClassifier{}
	classifier.On("Predict", mock.Anything).Return(0, boom)
	_, err = NewPredictionService(identityScaler{}, classifier, enc).Predict(context.Background(), scenarioA())
	require.ErrorAs(t, err, &predErr)
	assert.Equal(t, StagePredict, predErr.Stage)

	classifier = &MockClassifier{}
	classifier.On("Predict", mock.Anything).Return(7, nil)
	_, err = NewPredictionService(identityScaler{}, classifier, enc).Predict(context.Background(), scenarioA())
	require.ErrorAs(t, err, &predErr)
	assert.Equal(t, StageDecode, predErr.Stage)
	assert.ErrorIs(t, err, artifact.ErrUnknownCode)
}

func TestPredict_RecoversPanic(t *testing.T) {
	m := metrics.NewNop()
	svc := NewPredictionService(identityScaler{}, panickingClassifier{}, testEncoders(t), WithMetrics(m))

	got, err := svc.Predict(context.Background(), scenarioA())

	var predErr *PredictionError
	require.ErrorAs(t, err, &predErr)
	assert.Equal(t, StagePanic, predErr.Stage)
	assert.Contains(t, err.Error(), "index out of range")
	assert.Empty(t, got.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues(metrics.OutcomeFailure)))
}

func TestPredict_EncodingErrorSkipsModel(t *testing.T) {
	scaler := &MockScaler{}
	classifier := &MockClassifier{}
	m := metrics.NewNop()
	svc := NewPredictionService(scaler, classifier, testEncoders(t), WithMetrics(m), WithLogger(zaptest.NewLogger(t)))

	rec := scenarioA()
	rec.Gender = "Other"
	_, err := svc.Predict(context.Background(), rec)

	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
	scaler.AssertNotCalled(t, "Transform", mock.Anything)
	classifier.AssertNotCalled(t, "Predict", mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues(metrics.OutcomeEncodingError)))
}

func TestPredict_BorrowerIDDoesNotAffectResult(t *testing.T) {
	svc := NewPredictionService(identityScaler{}, &sumClassifier{}, testEncoders(t))

	a := scenarioA()
	a.BorrowerID = "first"
	b := scenarioA()
	b.BorrowerID = "second"

	ra, err := svc.Predict(context.Background(), a)
	require.NoError(t, err)
	rb, err := svc.Predict(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, ra.Status, rb.Status)
	assert.Equal(t, ra.ClassCode, rb.ClassCode)
	assert.Equal(t, "first", ra.BorrowerID)
	assert.Equal(t, "second", rb.BorrowerID)
}

func TestPredict_CacheShortCircuitsModel(t *testing.T) {
	classifier := &sumClassifier{}
	cache := repository.NewMemoryCache(0, 0)
	m := metrics.NewNop()
	svc := NewPredictionService(identityScaler{}, classifier, testEncoders(t),
		WithCache(cache, "fp"), WithMetrics(m))

	first, err := svc.Predict(context.Background(), scenarioA())
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), scenarioA())
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheMiss)))
}

func TestPredict_CorruptCacheEntryIsMiss(t *testing.T) {
	classifier := &sumClassifier{}
	cache := repository.NewMemoryCache(0, 0)
	svc := NewPredictionService(identityScaler{}, classifier, testEncoders(t), WithCache(cache, "fp"))

	v, err := AssembleFeatures(scenarioA(), testEncoders(t))
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), "loanrecovery:fp:"+FeatureKey(v), "not-a-code"))

	got, err := svc.Predict(context.Background(), scenarioA())
	require.NoError(t, err)
	assert.False(t, got.Cached)
	assert.Equal(t, 1, classifier.calls)
}

func TestFeatureKey(t *testing.T) {
	var a, b domain.FeatureVector
	b[16] = 1

	assert.Equal(t, FeatureKey(a), FeatureKey(a))
	assert.NotEqual(t, FeatureKey(a), FeatureKey(b))
	assert.Len(t, FeatureKey(a), 16)
}

func TestPredict_ShippedArtifacts(t *testing.T) {
	svc := NewPredictionServiceFromBundle(testBundle(t))
	ctx := context.Background()

	t.Run("scenario A is stable", func(t *testing.T) {
		first, err := svc.Predict(ctx, scenarioA())
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := svc.Predict(ctx, scenarioA())
			require.NoError(t, err)
			assert.Equal(t, first.Status, again.Status)
		}
		assert.Equal(t, "Fully Recovered", first.Status)
	})

	t.Run("scenario B high risk completes", func(t *testing.T) {
		rec := scenarioA()
		rec.LegalActionTaken = "Yes"
		rec.NumMissedPayments = 5
		rec.DaysPastDue = 90

		got, err := svc.Predict(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, "Written Off", got.Status)
	})

	t.Run("scenario C unknown gender", func(t *testing.T) {
		rec := scenarioA()
		rec.Gender = "Other"

		_, err := svc.Predict(ctx, rec)
		var encErr *EncodingError
		assert.ErrorAs(t, err, &encErr)
	})

	t.Run("every form choice encodes", func(t *testing.T) {
		choices := map[domain.Field][]string{
			domain.FieldGender:           domain.GenderOptions,
			domain.FieldEmploymentType:   domain.EmploymentTypeOptions,
			domain.FieldLoanType:         domain.LoanTypeOptions,
			domain.FieldCollectionMethod: domain.CollectionMethodOptions,
			domain.FieldLegalActionTaken: domain.LegalActionOptions,
		}
		for field, options := range choices {
			for _, opt := range options {
				rec := scenarioA()
				switch field {
				case domain.FieldGender:
					rec.Gender = opt
				case domain.FieldEmploymentType:
					rec.EmploymentType = opt
				case domain.FieldLoanType:
					rec.LoanType = opt
				case domain.FieldCollectionMethod:
					rec.CollectionMethod = opt
				case domain.FieldLegalActionTaken:
					rec.LegalActionTaken = opt
				}
				_, err := svc.Predict(ctx, rec)
				assert.NoError(t, err, "%s=%s", field, opt)
			}
		}
	})
}
