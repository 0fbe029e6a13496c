package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotpicks/internal/lines"
	"hotpicks/internal/lines/metrics"
	"hotpicks/internal/notify"
	dErrors "hotpicks/pkg/domain-errors"
	"hotpicks/pkg/platform/httputil"
	"hotpicks/pkg/requestcontext"
)

// ReportFilename is the attachment name of a comparison CSV.
const ReportFilename = "euromillions_results.csv"

// Generator produces batches of lines.
type Generator interface {
	GenerateLines(n int) ([]lines.Line, error)
}

// Handler serves line generation, export and comparison.
type Handler struct {
	generator     Generator
	mailer        notify.Mailer
	premium       func(http.Handler) http.Handler
	maxLines      int
	logger        *slog.Logger
	metrics       *metrics.Metrics
	notifyMetrics *notify.Metrics
}

type Option func(*Handler)

// WithMailer enables preview delivery by email.
func WithMailer(m notify.Mailer, nm *notify.Metrics) Option {
	return func(h *Handler) {
		h.mailer = m
		h.notifyMetrics = nm
	}
}

// WithPremiumGuard sets the middleware that admits subscribers to POST /lines.
// Without it the premium route answers 503.
func WithPremiumGuard(guard func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.premium = guard
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func WithMaxLines(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxLines = n
		}
	}
}

func New(generator Generator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		generator: generator,
		logger:    logger,
		maxLines:  50,
		mailer:    notify.Disabled{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the lines routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/lines/preview", h.HandlePreview)
	r.Post("/lines/export", h.HandleExport)
	r.Post("/results/compare", h.HandleCompare)

	if h.premium != nil {
		r.With(h.premium).Post("/lines", h.HandleGenerate)
	} else {
		r.Post("/lines", h.handlePremiumUnavailable)
	}
}

// HandlePreview returns the free preview batch and optionally emails it.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PreviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	batch, ok := h.generate(w, r, lines.DefaultBatchSize, metrics.TierPreview)
	if !ok {
		return
	}

	resp := LinesResponse{Lines: batch}
	if req.Email != "" {
		delivery := notify.Deliver(ctx, h.mailer, req.Email, batch)
		h.notifyMetrics.ObserveDelivery("preview", delivery)
		if !delivery.Sent {
			h.logger.WarnContext(ctx, "preview email not sent",
				"request_id", requestID,
				"reason", delivery.Reason,
			)
		}
		resp.Email = &delivery
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGenerate returns a premium batch for an authenticated subscriber.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	count := req.CountOrDefault()
	if count > h.maxLines {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("count must be between 1 and %d", h.maxLines)))
		return
	}

	batch, ok := h.generate(w, r, count, metrics.TierPremium)
	if !ok {
		return
	}
	if sub, found := requestcontext.Subscriber(ctx); found {
		h.logger.InfoContext(ctx, "premium lines generated",
			"request_id", requestID,
			"subscriber_id", sub.ID,
			"count", len(batch),
		)
	}
	httputil.WriteJSON(w, http.StatusOK, LinesResponse{Lines: batch})
}

// HandleExport renders lines as a CSV attachment.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ExportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := lines.WriteCSV(&buf, req.Lines); err != nil {
		h.logger.ErrorContext(ctx, "csv export failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export lines"))
		return
	}
	h.metrics.IncrementExport("preview")
	writeCSV(w, lines.PreviewFilename, buf.Bytes())
}

// HandleCompare scores lines against a draw. ?format=csv returns the report
// as an attachment instead of JSON.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CompareRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	draw := lines.ParseDraw(req.Main, req.Bonus)
	reports := lines.Compare(req.Lines, draw)

	mainMatches := make([]int, len(reports))
	for i, rep := range reports {
		mainMatches[i] = rep.MainMatches
	}
	h.metrics.ObserveComparison(mainMatches)

	if r.URL.Query().Get("format") == "csv" {
		var buf bytes.Buffer
		if err := lines.WriteReportCSV(&buf, reports); err != nil {
			h.logger.ErrorContext(ctx, "report export failed", "request_id", requestID, "error", err)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to export report"))
			return
		}
		h.metrics.IncrementExport("report")
		writeCSV(w, ReportFilename, buf.Bytes())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CompareResponse{Draw: draw, Reports: reports})
}

func (h *Handler) handlePremiumUnavailable(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "premium lines are not enabled"))
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, n int, tier string) ([]lines.Line, bool) {
	batch, err := h.generator.GenerateLines(n)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "line generation failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		if errors.Is(err, lines.ErrInvalidCount) {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
			return nil, false
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "line generation is misconfigured"))
		return nil, false
	}
	h.metrics.AddGenerated(tier, len(batch))
	return batch, true
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
