package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/pipeline"
)

// Report is the wire form of one pipeline fault.
type Report struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`
	Phase     string    `json:"phase"`
	Code      string    `json:"code"`
	Error     string    `json:"error"`
	Retryable bool      `json:"retryable"`
	Time      time.Time `json:"time"`
}

// New builds a Report for f stamped at now.
func New(f pipeline.Fault, now time.Time) Report {
	r := Report{
		ID:        uuid.NewString(),
		ChatID:    f.ChatID,
		MessageID: f.MessageID,
		Phase:     string(f.Phase),
		Code:      string(errors.CodeOf(f.Err)),
		Time:      now.UTC(),
	}
	if f.Err != nil {
		r.Error = f.Err.Error()
	}
	var appErr *errors.AppError
	if stderrors.As(f.Err, &appErr) {
		r.Retryable = appErr.Retryable
	}
	return r
}

// Sink consumes reports.
type Sink interface {
	Send(ctx context.Context, r Report) error
}

// Reporter turns pipeline faults into reports and fans them out to sinks.
// A failing or panicking sink never affects the others.
type Reporter struct {
	sinks []Sink
	now   func() time.Time
	log   *logger.Logger
}

var _ pipeline.Reporter = (*Reporter)(nil)

// NewReporter creates a Reporter over sinks.
func NewReporter(sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks, now: time.Now, log: logger.Get("report")}
}

// Report implements pipeline.Reporter.
func (r *Reporter) Report(ctx context.Context, f pipeline.Fault) {
	rep := New(f, r.now())
	for _, s := range r.sinks {
		if err := r.send(ctx, s, rep); err != nil {
			r.log.WithContext(ctx).WithError(err).Warn("report sink failed",
				logger.Fields(logger.FieldChatID, rep.ChatID, "report_id", rep.ID))
		}
	}
}

func (r *Reporter) send(ctx context.Context, s Sink, rep Report) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panic: %v", p)
		}
	}()
	return s.Send(ctx, rep)
}
