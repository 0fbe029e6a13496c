package notify

import (
	"context"
	"fmt"
	"log/slog"
	gostrings "strings"
	"time"

	"github.com/robfig/cron/v3"

	"hotpicks/internal/lines"
	linesMetrics "hotpicks/internal/lines/metrics"
	"hotpicks/internal/subscription/models"
	"hotpicks/pkg/platform/strings"
)

// DefaultSchedule runs the digest every Monday at 09:00.
const DefaultSchedule = "0 9 * * 1"

// SubscriberSource lists who should receive the digest.
type SubscriberSource interface {
	ActiveSubscribers(ctx context.Context) ([]*models.Subscriber, error)
}

// LineGenerator produces a fresh batch per recipient.
type LineGenerator interface {
	GenerateLines(n int) ([]lines.Line, error)
}

// DigestReport summarises one run.
type DigestReport struct {
	Recipients int
	Sent       int
	Failed     int
}

// Digest emails every active subscriber a fresh premium batch.
type Digest struct {
	subscribers  SubscriberSource
	generator    LineGenerator
	mailer       Mailer
	batchSize    int
	location     *time.Location
	logger       *slog.Logger
	metrics      *Metrics
	linesMetrics *linesMetrics.Metrics
}

type DigestOption func(*Digest)

func WithBatchSize(n int) DigestOption {
	return func(d *Digest) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

func WithLocation(loc *time.Location) DigestOption {
	return func(d *Digest) {
		if loc != nil {
			d.location = loc
		}
	}
}

func WithDigestLogger(logger *slog.Logger) DigestOption {
	return func(d *Digest) {
		d.logger = logger
	}
}

func WithDigestMetrics(m *Metrics, lm *linesMetrics.Metrics) DigestOption {
	return func(d *Digest) {
		d.metrics = m
		d.linesMetrics = lm
	}
}

func NewDigest(subscribers SubscriberSource, generator LineGenerator, mailer Mailer, opts ...DigestOption) *Digest {
	d := &Digest{
		subscribers: subscribers,
		generator:   generator,
		mailer:      mailer,
		batchSize:   lines.DefaultBatchSize,
		location:    time.UTC,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunOnce sends one digest round. A recipient whose batch or email fails is
// logged and counted; the round continues. Only failing to list subscribers
// aborts the run.
func (d *Digest) RunOnce(ctx context.Context) (DigestReport, error) {
	d.metrics.IncrementDigestRun()

	subs, err := d.subscribers.ActiveSubscribers(ctx)
	if err != nil {
		return DigestReport{}, fmt.Errorf("list subscribers: %w", err)
	}
	emails := make([]string, 0, len(subs))
	ids := make(map[string]string, len(subs))
	for _, sub := range subs {
		emails = append(emails, sub.Email)
		key := gostrings.TrimSpace(sub.Email)
		if _, ok := ids[key]; !ok {
			ids[key] = sub.ID.String()
		}
	}
	recipients := strings.DedupeAndTrim(emails)

	report := DigestReport{Recipients: len(recipients)}
	for _, recipient := range recipients {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		batch, err := d.generator.GenerateLines(d.batchSize)
		if err != nil {
			report.Failed++
			d.logger.ErrorContext(ctx, "digest generation failed", "error", err)
			continue
		}
		d.linesMetrics.AddGenerated(linesMetrics.TierDigest, len(batch))

		delivery := Deliver(ctx, d.mailer, recipient, batch)
		d.metrics.ObserveDelivery("digest", delivery)
		if !delivery.Sent {
			report.Failed++
			d.logger.WarnContext(ctx, "digest email failed",
				"subscriber_id", ids[recipient],
				"reason", delivery.Reason,
			)
			continue
		}
		report.Sent++
	}

	d.logger.InfoContext(ctx, "digest run finished",
		"recipients", report.Recipients,
		"sent", report.Sent,
		"failed", report.Failed,
	)
	return report, nil
}

// Run schedules RunOnce on spec and blocks until ctx is cancelled, then waits
// for an in-flight run to finish.
func (d *Digest) Run(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithLocation(d.location))
	if _, err := c.AddFunc(spec, func() {
		if _, err := d.RunOnce(ctx); err != nil {
			d.logger.ErrorContext(ctx, "digest run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}

	c.Start()
	d.logger.InfoContext(ctx, "digest scheduler started", "schedule", spec)
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// ValidateSchedule reports whether spec is a valid five-field cron expression.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return nil
}
