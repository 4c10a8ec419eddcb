package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/logger"
	"github.com/yildizm/SysSecura/internal/predict"
)

// ErrSubmissionInFlight is returned when Submit or Select is called while a submission runs
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Controller owns the session state: it validates selections and runs submissions.
// It is safe for concurrent use.
type Controller struct {
	predictor predict.Predictor
	validator *intake.Validator
	log       *logger.Logger

	mu        sync.RWMutex
	state     State
	observers []func(State)

	inFlight atomic.Bool
}

// NewController creates a controller submitting through predictor
func NewController(predictor predict.Predictor, validator *intake.Validator, log *logger.Logger) *Controller {
	if validator == nil {
		validator = intake.NewValidator(intake.DefaultMaxFileSize)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		predictor: predictor,
		validator: validator,
		log:       log.WithComponent("session"),
		state:     idle(nil),
	}
}

// Snapshot returns the current state
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Subscribe registers fn to be called with every new state
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Select offers a candidate file. A JSON candidate becomes the selection and
// clears previous results and errors. Anything else clears the selection and
// records the rejection, leaving earlier results in place.
func (c *Controller) Select(candidate *intake.File) error {
	if !c.inFlight.CAS(false, true) {
		return ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	if err := c.validator.Validate(candidate); err != nil {
		message := MsgInvalidFile
		if intake.IsTooLargeError(err) {
			message = MsgTooLarge(c.validator.MaxSize)
		}
		c.log.Debug("selection rejected: %v", err)

		prior := c.Snapshot().Results
		c.set(rejected(nil, message, prior))
		return err
	}

	c.log.DebugWithFields("file selected", []logger.Field{
		logger.F("name", candidate.Name),
		logger.F("size", candidate.Size),
	})
	c.set(idle(candidate))
	return nil
}

// Submit reads the selected file, parses it as JSON and sends it for
// prediction. The outcome is recorded in the state and also returned.
// Loading is released on every exit path.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.inFlight.CAS(false, true) {
		return ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	current := c.Snapshot()
	if current.File == nil {
		c.set(rejected(nil, MsgNoFile, current.Results))
		return intake.ErrNoFile
	}

	file := current.File
	submissionID := uuid.NewString()
	startTime := time.Now()

	c.set(loading(file))
	outcome := failed(file, MsgErrorPrefix+"submission aborted")
	defer func() { c.set(outcome) }()

	c.log.InfoWithFields("submission started", []logger.Field{
		logger.F("id", submissionID),
		logger.F("file", file.Name),
	})

	text, err := file.ReadText()
	if err != nil {
		outcome = failed(file, MsgReadFailed)
		c.logFailure(submissionID, err)
		return predict.NewErrorWithCause(predict.KindRead, MsgReadFailed, err)
	}

	payload, err := predict.ParsePayload(text)
	if err != nil {
		outcome = failed(file, MsgErrorPrefix+predict.MessageOf(err))
		c.logFailure(submissionID, err)
		return err
	}

	records, err := c.predictor.Predict(ctx, payload)
	if err != nil {
		outcome = failed(file, MsgErrorPrefix+predict.MessageOf(err))
		c.logFailure(submissionID, err)
		return err
	}

	outcome = succeeded(file, records)
	c.log.InfoWithFields("submission completed", []logger.Field{
		logger.F("id", submissionID),
		logger.Count(len(records)),
		logger.F("flagged", predict.Summarize(records).Flagged),
		logger.Duration(time.Since(startTime)),
	})
	return nil
}

// Run selects candidate and submits it in one step
func (c *Controller) Run(ctx context.Context, candidate *intake.File) (State, error) {
	if err := c.Select(candidate); err != nil {
		return c.Snapshot(), fmt.Errorf("file rejected: %w", err)
	}
	err := c.Submit(ctx)
	return c.Snapshot(), err
}

func (c *Controller) logFailure(submissionID string, err error) {
	c.log.InfoWithFields("submission failed", []logger.Field{
		logger.F("id", submissionID),
		logger.Error(err),
	})
}

func (c *Controller) set(s State) {
	c.mu.Lock()
	c.state = s
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(s.clone())
	}
}
