// Package preview runs a live fill-out session over a form schema. A session
// owns the per-field state, re-validates a field on every edit, and keeps
// derived fields settled after each change.
package preview

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/derive"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// FormState maps field ids to their current values.
type FormState map[string]schema.Value

// FormErrors maps field ids to their current validation message. A field
// with no entry is currently valid.
type FormErrors map[string]string

// Phase describes where a session is in its lifecycle.
type Phase string

const (
	// PhaseEditing is the initial phase; any edit returns the session here.
	PhaseEditing Phase = "editing"
	// PhaseAccepted means the last Submit passed every rule.
	PhaseAccepted Phase = "accepted"
	// PhaseRejected means the last Submit found at least one invalid field.
	PhaseRejected Phase = "rejected"
)

var (
	// ErrFieldNotFound is returned when an edit targets an id the form does
	// not declare.
	ErrFieldNotFound = errors.New("preview: field not found")
	// ErrDerivedField is returned when an edit targets a derived field;
	// derived values only change through recomputation.
	ErrDerivedField = errors.New("preview: derived fields cannot be set directly")
)

// SubmitError reports a rejected submission along with every failing field.
type SubmitError struct {
	Errors FormErrors
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("preview: submission rejected with %d invalid field(s)", len(e.Errors))
}

// Option configures a Session.
type Option func(*Session)

// WithEngine sets the derivation engine the session recomputes with. Sessions
// over the same schemas can share one engine and its program cache.
func WithEngine(engine *derive.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithQueue sets the notification queue submissions report to.
func WithQueue(queue *notify.Queue) Option {
	return func(s *Session) {
		if queue != nil {
			s.queue = queue
		}
	}
}

// Session is a single fill-out of one form. It is not safe for concurrent
// use.
type Session struct {
	form   schema.FormSchema
	engine *derive.Engine
	queue  *notify.Queue
	state  FormState
	errs   FormErrors
	phase  Phase
}

// NewSession validates the form, seeds every field from its default value,
// and settles derived fields once so the initial state is already consistent.
func NewSession(form schema.FormSchema, opts ...Option) (*Session, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	s := &Session{
		form:   form,
		engine: derive.NewEngine(),
		queue:  notify.NewQueue(),
		state:  make(FormState, len(form.Fields)),
		errs:   make(FormErrors),
		phase:  PhaseEditing,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, field := range form.Fields {
		s.state[field.ID] = field.SeedValue()
	}
	s.settle()
	return s, nil
}

// SetValue records a new value for an editable field, re-validates that field
// only, and recomputes derived fields until they settle. Any edit returns the
// session to the editing phase.
func (s *Session) SetValue(fieldID string, value schema.Value) error {
	field, ok := s.form.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, fieldID)
	}
	if field.IsDerived {
		return fmt.Errorf("%w: %q", ErrDerivedField, fieldID)
	}

	s.state[fieldID] = value
	if message := validation.Validate(field, value); message != "" {
		s.errs[fieldID] = message
	} else {
		delete(s.errs, fieldID)
	}
	s.settle()
	s.phase = PhaseEditing
	return nil
}

// Submit validates every editable field against its full rule set. The error
// map is replaced wholesale so messages from earlier edits cannot linger. On
// rejection Submit returns a *SubmitError; the session stays usable either
// way.
func (s *Session) Submit() error {
	next := make(FormErrors)
	for _, field := range s.form.Fields {
		if field.IsDerived {
			continue
		}
		if message := validation.Validate(field, s.state[field.ID]); message != "" {
			next[field.ID] = message
		}
	}
	s.errs = next

	if len(next) > 0 {
		s.phase = PhaseRejected
		s.queue.Push(notify.KindError, "Please fix the highlighted fields and try again.")
		return &SubmitError{Errors: s.Errors()}
	}
	s.phase = PhaseAccepted
	s.queue.Push(notify.KindSuccess, "Form submitted successfully!")
	return nil
}

// settle recomputes derived fields until two consecutive passes agree. With
// cyclic parents rejected at validation time a chain of n fields settles
// within n passes; the bound is a backstop, not a truncation.
func (s *Session) settle() {
	for i := 0; i <= len(s.form.Fields); i++ {
		next := s.engine.Recompute(s.form, s.state)
		settled := statesEqual(s.state, next)
		s.state = next
		if settled {
			return
		}
	}
}

func statesEqual(a, b FormState) bool {
	if len(a) != len(b) {
		return false
	}
	for id, value := range a {
		other, ok := b[id]
		if !ok || !value.Equal(other) {
			return false
		}
	}
	return true
}

// Form returns the schema the session runs over.
func (s *Session) Form() schema.FormSchema {
	return s.form
}

// Value returns the current value of a field.
func (s *Session) Value(fieldID string) (schema.Value, bool) {
	value, ok := s.state[fieldID]
	return value, ok
}

// Values returns a copy of the full field state.
func (s *Session) Values() FormState {
	out := make(FormState, len(s.state))
	for id, value := range s.state {
		out[id] = value
	}
	return out
}

// Err returns the current validation message for a field, or "".
func (s *Session) Err(fieldID string) string {
	return s.errs[fieldID]
}

// Errors returns a copy of the current validation messages.
func (s *Session) Errors() FormErrors {
	out := make(FormErrors, len(s.errs))
	for id, message := range s.errs {
		out[id] = message
	}
	return out
}

// Phase reports the session's lifecycle phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Notifications drains and returns pending notifications.
func (s *Session) Notifications() []notify.Notification {
	return s.queue.Drain()
}
