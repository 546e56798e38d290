package complaint

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/snapback/internal/vision"
)

// Recorder persists finished analyses. It is optional; a nil Recorder keeps
// the analyzer free of side effects.
type Recorder interface {
	Record(ctx context.Context, a *Analysis) error
}

type Analyzer struct {
	visionAPI vision.VisionAnalyzer
	mode      Mode
	timeout   time.Duration
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Analyzer)

// WithTimeout bounds each inference call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

func NewAnalyzer(visionAPI vision.VisionAnalyzer, mode Mode, logger *slog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		visionAPI: visionAPI,
		mode:      mode,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Mode() Mode { return a.mode }

// Analyze sends the image and the checklist prompt to the inference service
// and decodes the answer. A malformed answer is not an error: it is reported
// as a Failed outcome on the returned Analysis.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	a.logger.Info("analysis started", "analysis_id", id, "mode", a.mode, "mime_type", req.MimeType, "bytes", len(req.Image))

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	answer, err := a.visionAPI.Query(ctx, bytes.NewReader(req.Image), req.MimeType, BuildPrompt(a.mode, req.Text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	outcome := Decode(a.mode, answer)
	analysis := &Analysis{
		ID:            id,
		Complaint:     req.Text,
		Mode:          a.mode,
		Outcome:       outcome,
		Answer:        answer,
		SuggestedPost: SuggestedPost(req.Text, outcome),
		CreatedAt:     a.now().UTC(),
	}

	if outcome.Failed() {
		a.logger.Warn("analysis answer not decodable", "analysis_id", id, "reason", outcome.Reason)
	}
	a.logger.Info("analysis complete", "analysis_id", id, "outcome", outcome.Kind)

	if a.recorder != nil {
		// History is best effort; the user still gets their result.
		if err := a.recorder.Record(context.WithoutCancel(ctx), analysis); err != nil {
			a.logger.Error("failed to record analysis", "analysis_id", id, "error", err)
		}
	}

	return analysis, nil
}
