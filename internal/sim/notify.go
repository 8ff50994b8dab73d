package sim

import "errors"

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notifier is the fire-and-forget sink for user-visible messages.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message string)

// Notify calls f(kind, message).
func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }

type discard struct{}

func (discard) Notify(Kind, string) {}

// Notice is a notification produced by a transition and delivered
// after the runner releases its lock.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Errors returned by Runner.Act.
var (
	ErrNotActive = errors.New("simulation is not active")
	ErrBusy      = errors.New("simulation is animating")
)

// InputError rejects a malformed action. No state changes and no move
// is counted when a game returns one.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Invalid builds an InputError.
func Invalid(message string) error {
	return &InputError{Message: message}
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
