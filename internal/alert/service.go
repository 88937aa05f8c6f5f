package alert

import (
	"context"
	"time"

	"safegenie/internal/dispatch"
	"safegenie/internal/location"
	"safegenie/internal/logger"
	pkgerrors "safegenie/pkg/errors"
	"safegenie/pkg/logging"
)

// TimelineSource supplies the current position and the retained timeline for
// server-side message composition.
type TimelineSource interface {
	Current() (location.Sample, bool)
	Timeline() []location.Sample
}

// Dispatcher is the delivery chain the service hands validated alerts to.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []string, message string) (*dispatch.Result, error)
}

// Service orchestrates one alert: compose if the client sent no message,
// validate, dispatch through the channel chain, then record the redacted
// outcome off the request path.
type Service struct {
	validator  *Validator
	dispatcher Dispatcher
	logger     logger.Logger

	tracker  TimelineSource
	history  HistoryRepository
	events   *EventPublisher
	reporter Reporter

	now func() time.Time
}

type ServiceOption func(*Service)

func WithTracker(t TimelineSource) ServiceOption {
	return func(s *Service) { s.tracker = t }
}

func WithHistory(h HistoryRepository) ServiceOption {
	return func(s *Service) { s.history = h }
}

func WithEvents(e *EventPublisher) ServiceOption {
	return func(s *Service) { s.events = e }
}

func WithReporter(r Reporter) ServiceOption {
	return func(s *Service) { s.reporter = r }
}

func NewService(validator *Validator, dispatcher Dispatcher, log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		validator:  validator,
		dispatcher: dispatcher,
		logger:     log,
		history:    NopHistory{},
		reporter:   NopReporter{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send processes one alert request end to end. The returned error is always
// from the failure taxonomy; the handler maps it to an HTTP status.
func (s *Service) Send(ctx context.Context, req SendSOSRequest) (*SendSOSResponse, error) {
	start := s.now()

	// Delivery must outlive the caller: the phone that posted the alert may
	// lose signal a moment later, and the dropped connection cannot be
	// allowed to cancel the channel chain mid-flight.
	ctx = contextForBackground(ctx)

	// Compose before validating so a client that relies on the tracker is
	// held to the same message limits as one that writes its own text.
	if req.Message == "" && s.tracker != nil {
		if current, ok := s.tracker.Current(); ok {
			req.Message = Compose(s.now(), current, s.tracker.Timeline())
		}
	}

	redacted := Redact(logging.GetRequestID(ctx), req)

	if err := s.validator.Validate(req); err != nil {
		s.logger.WarnwCtx(ctx, "Alert request rejected", append(redacted.LogFields(), "error", err)...)
		return nil, err
	}

	s.logger.InfowCtx(ctx, "Dispatching alert", redacted.LogFields()...)

	result, err := s.dispatcher.Dispatch(ctx, req.Recipients, req.Message)
	latency := s.now().Sub(start)
	if result == nil {
		result = &dispatch.Result{}
	}

	record := DispatchRecord{
		RequestID:      redacted.RequestID,
		Via:            result.Via,
		Attempts:       result.Attempts,
		RecipientCount: redacted.RecipientCount,
		MessageLen:     redacted.MessageLen,
		Latency:        latency,
		CreatedAt:      start.UTC(),
	}

	if err != nil {
		record.Outcome = RecordOutcomeFailed
		s.recordOutcome(ctx, record)

		if !pkgerrors.IsTaxonomy(err) {
			go s.reporter.Report(contextForBackground(ctx), redacted, "dispatch", err.Error())
			err = pkgerrors.Wrap(err, pkgerrors.ErrInternal)
		} else if pkgerrors.IsChannel(err) {
			go s.reporter.Report(contextForBackground(ctx), redacted, "dispatch", err.Error())
		}

		s.logger.ErrorwCtx(ctx, "Alert dispatch failed",
			append(redacted.LogFields(), "attempts", len(result.Attempts), "error", err)...)
		return nil, err
	}

	record.Outcome = RecordOutcomeDelivered
	s.recordOutcome(ctx, record)

	s.logger.InfowCtx(ctx, "Alert dispatched",
		append(redacted.LogFields(), "via", result.Via, "latency", latency)...)

	return &SendSOSResponse{Success: true, Via: result.Via}, nil
}

// recordOutcome writes history and publishes the dispatch event off the
// request path. Both are best effort; neither can change the response.
func (s *Service) recordOutcome(ctx context.Context, record DispatchRecord) {
	bgCtx := contextForBackground(ctx)

	go func() {
		defer func() {
			if err := pkgerrors.RecoverPanic(recover()); err != nil {
				s.logger.ErrorwCtx(bgCtx, "Panic while recording dispatch outcome", "error", err)
			}
		}()

		writeCtx, cancel := context.WithTimeout(bgCtx, 5*time.Second)
		defer cancel()

		if err := s.history.Insert(writeCtx, record); err != nil {
			s.logger.WarnwCtx(writeCtx, "Failed to persist dispatch record", "error", err)
		}

		if s.events != nil {
			s.events.PublishDispatch(writeCtx, record)
		}
	}()
}

// contextForBackground keeps the request-scoped log fields but detaches from
// the request's cancellation, so background work survives the response.
func contextForBackground(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
