package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"loan-recovery/domain"
	"loan-recovery/metrics"
	"loan-recovery/service"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Predictor runs the inference pipeline for one borrower.
type Predictor interface {
	Predict(ctx context.Context, rec domain.BorrowerRecord) (domain.PredictionResult, error)
}

type PredictionHandler struct {
	service Predictor
	theme   string
	title   string
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewPredictionHandler(svc Predictor, theme, title string, m *metrics.Metrics, log *zap.Logger) *PredictionHandler {
	return &PredictionHandler{
		service: svc,
		theme:   theme,
		title:   title,
		metrics: m,
		log:     log,
	}
}

type optionView struct {
	Value    string
	Selected bool
}

type fieldView struct {
	Name    string
	Label   string
	Value   string
	Number  bool
	Min     string
	Max     string
	Step    string
	Options []optionView
}

type resultView struct {
	RequestID  string
	BorrowerID string
	Status     string
}

type pageData struct {
	Title  string
	Theme  string
	Fields []fieldView
	Result *resultView
	Error  string
}

func formatBound(b *float64) string {
	if b == nil {
		return ""
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}

// fieldViews renders the widget list, filled with values when given and
// with the widget defaults otherwise.
func fieldViews(values url.Values) []fieldView {
	views := make([]fieldView, 0, len(domain.BorrowerForm))
	for _, in := range domain.BorrowerForm {
		v := fieldView{
			Name:  in.Name,
			Label: in.Label,
			Min:   formatBound(in.Min),
			Max:   formatBound(in.Max),
		}
		if in.Kind == domain.KindText {
			v.Value = values.Get(in.Name)
		} else {
			v.Value = formValue(values, in)
		}

		switch in.Kind {
		case domain.KindInt:
			v.Number, v.Step = true, "1"
		case domain.KindFloat:
			v.Number, v.Step = true, in.Step
			if v.Step == "" {
				v.Step = "any"
			}
		case domain.KindChoice:
			for _, opt := range in.Options {
				v.Options = append(v.Options, optionView{Value: opt, Selected: opt == v.Value})
			}
		}
		views = append(views, v)
	}
	return views
}

func (h *PredictionHandler) render(w http.ResponseWriter, status int, data pageData) {
	data.Title = h.title
	data.Theme = h.theme

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error("failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Form serves the empty borrower form.
func (h *PredictionHandler) Form(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, http.StatusOK, pageData{Fields: fieldViews(url.Values{})})
}

// Predict runs the pipeline on the submitted form and re-renders the page
// with either the predicted status or the error.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.metrics.Predictions.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		h.render(w, http.StatusBadRequest, pageData{
			Fields: fieldViews(url.Values{}),
			Error:  "invalid request body",
		})
		return
	}

	data := pageData{Fields: fieldViews(r.PostForm)}

	rec, err := ParseBorrowerForm(r.PostForm)
	if err != nil {
		h.metrics.Predictions.WithLabelValues(metrics.OutcomeInvalidInput).Inc()
		data.Error = err.Error()
		h.render(w, statusFor(err), data)
		return
	}

	result, err := h.predict(r.Context(), rec)
	if err != nil {
		data.Error = err.Error()
		h.render(w, statusFor(err), data)
		return
	}

	borrowerID := result.BorrowerID
	if borrowerID == "" {
		borrowerID = "N/A"
	}
	data.Result = &resultView{
		RequestID:  result.RequestID,
		BorrowerID: borrowerID,
		Status:     result.Status,
	}
	h.render(w, http.StatusOK, data)
}

func (h *PredictionHandler) predict(ctx context.Context, rec domain.BorrowerRecord) (result domain.PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("predictor panicked", zap.Any("panic", r))
			err = fmt.Errorf("prediction failed: %v", r)
		}
	}()
	return h.service.Predict(ctx, rec)
}

func statusFor(err error) int {
	var inputErr *InputError
	var encErr *service.EncodingError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &encErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Health reports readiness along with the loaded artifact fingerprint.
func Health(fingerprint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "ok %s\n", fingerprint)
	}
}
