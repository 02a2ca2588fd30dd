package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"loan-recovery/artifact"
	"loan-recovery/domain"
	"loan-recovery/metrics"
	"loan-recovery/repository"
)

const tracerName = "loan-recovery/service"

type PredictionService struct {
	scaler     Scaler
	classifier Classifier
	encoders   Encoders

	cache       repository.CacheRepository
	cachePrefix string

	metrics *metrics.Metrics
	log     *zap.Logger
	tracer  trace.Tracer
	newID   func() string
}

type Option func(*PredictionService)

// WithCache short-circuits scaling and classification for feature
// vectors already seen. fingerprint scopes keys to one artifact set.
func WithCache(cache repository.CacheRepository, fingerprint string) Option {
	return func(s *PredictionService) {
		s.cache = cache
		s.cachePrefix = "loanrecovery:" + fingerprint + ":"
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *PredictionService) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PredictionService) { s.metrics = m }
}

// NewPredictionService creates a PredictionService over the fitted
// scaler, classifier and encoders.
func NewPredictionService(scaler Scaler, classifier Classifier, encoders Encoders, opts ...Option) *PredictionService {
	s := &PredictionService{
		scaler:     scaler,
		classifier: classifier,
		encoders:   encoders,
		metrics:    metrics.NewNop(),
		log:        zap.NewNop(),
		tracer:     otel.Tracer(tracerName),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPredictionServiceFromBundle wires a service to loaded artifacts.
func NewPredictionServiceFromBundle(b *artifact.Bundle, opts ...Option) *PredictionService {
	return NewPredictionService(b.Scaler, b.Model, b.Encoders, opts...)
}

// Predict runs encode, assemble, scale, classify and decode for one
// borrower. BorrowerID is copied to the result and nothing else.
func (s *PredictionService) Predict(ctx context.Context, rec domain.BorrowerRecord) (result domain.PredictionResult, err error) {
	requestID := s.newID()
	ctx, span := s.tracer.Start(ctx, "PredictionService.Predict",
		trace.WithAttributes(attribute.String("request.id", requestID)))
	defer span.End()

	start := time.Now()
	log := s.log.With(zap.String("request_id", requestID), zap.String("borrower_id", rec.BorrowerID))

	defer func() {
		if r := recover(); r != nil {
			err = &PredictionError{Stage: StagePanic, Err: fmt.Errorf("%v", r)}
			result = domain.PredictionResult{}
		}
		s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.metrics.Predictions.WithLabelValues(outcome(err)).Inc()
			log.Warn("prediction failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		span.SetAttributes(
			attribute.String("prediction.status", result.Status),
			attribute.Bool("prediction.cached", result.Cached),
		)
		s.metrics.Predictions.WithLabelValues(metrics.OutcomeSuccess).Inc()
		log.Info("prediction completed",
			zap.String("status", result.Status),
			zap.Bool("cached", result.Cached),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	features, err := AssembleFeatures(rec, s.encoders)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	code, cached, err := s.classify(ctx, features)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	status, err := s.encoders.Decode(code)
	if err != nil {
		return domain.PredictionResult{}, &PredictionError{Stage: StageDecode, Err: err}
	}

	return domain.PredictionResult{
		RequestID:  requestID,
		BorrowerID: rec.BorrowerID,
		Status:     status,
		ClassCode:  code,
		Cached:     cached,
	}, nil
}

func (s *PredictionService) classify(ctx context.Context, features domain.FeatureVector) (int, bool, error) {
	var key string
	if s.cache != nil {
		key = s.cachePrefix + FeatureKey(features)
		if val, ok := s.cache.Get(ctx, key); ok {
			if code, err := strconv.Atoi(val); err == nil {
				s.metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
				return code, true, nil
			}
		}
		s.metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	}

	scaled, err := s.scaler.Transform(features)
	if err != nil {
		return 0, false, &PredictionError{Stage: StageScale, Err: err}
	}

	code, err := s.classifier.Predict(scaled)
	if err != nil {
		return 0, false, &PredictionError{Stage: StagePredict, Err: err}
	}

	if s.cache != nil {
		// not critical if it fails
		if err := s.cache.Set(ctx, key, strconv.Itoa(code)); err != nil {
			s.log.Warn("failed to cache prediction", zap.Error(err))
		}
	}
	return code, false, nil
}

// FeatureKey hashes the unscaled feature vector.
func FeatureKey(v domain.FeatureVector) string {
	digest := xxhash.New()
	var buf [8]byte
	for _, x := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		digest.Write(buf[:])
	}
	return fmt.Sprintf("%016x", digest.Sum64())
}

func outcome(err error) string {
	var encErr *EncodingError
	if errors.As(err, &encErr) {
		return metrics.OutcomeEncodingError
	}
	return metrics.OutcomeFailure
}
