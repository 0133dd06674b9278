// Package form models the authentication form as an immutable State and a
// pure Transition function, plus a Controller that drives the credential API
// from it.
package form

// Mode is the current purpose of the form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
	ModeResetRequest
	ModeResetConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "LOGIN"
	case ModeRegister:
		return "REGISTER"
	case ModeResetRequest:
		return "RESET_REQUEST"
	case ModeResetConfirm:
		return "RESET_CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// Presentation is the screen a mode renders as. Both reset stages share one.
func (m Mode) Presentation() string {
	switch m {
	case ModeRegister:
		return "register"
	case ModeResetRequest, ModeResetConfirm:
		return "reset"
	default:
		return "login"
	}
}

// Field names a form input.
type Field uint8

const (
	FieldEmail Field = iota
	FieldName
	FieldPassword
	FieldConfirmPassword
	FieldSecretQuestion
	FieldSecretAnswer
	FieldNewPassword
	FieldPasswordConfirm
	fieldCount
)

var fieldNames = [fieldCount]string{
	"email", "name", "password", "confirmPassword",
	"secretQuestion", "secretAnswer", "newPassword", "passwordConfirm",
}

func (f Field) String() string {
	if f < fieldCount {
		return fieldNames[f]
	}
	return "unknown"
}

// ParseField looks a field up by its name.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// Secret reports whether the field holds a password.
func (f Field) Secret() bool {
	return f == FieldPassword || f == FieldConfirmPassword || f == FieldNewPassword || f == FieldPasswordConfirm
}

// FieldSet is an immutable set of fields.
type FieldSet uint16

// Fields builds a set from its members.
func Fields(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// With returns s plus f.
func (s FieldSet) With(f Field) FieldSet { return s | 1<<f }

// Has reports whether f is in s.
func (s FieldSet) Has(f Field) bool { return s&(1<<f) != 0 }

// Contains reports whether every member of other is in s.
func (s FieldSet) Contains(other FieldSet) bool { return s&other == other }

// State is the form session. It is a value: transitions return a new State.
type State struct {
	Mode           Mode
	Touched        FieldSet
	SecretQuestion string
	Busy           bool
}

// NewState returns the state the form mounts with.
func NewState() State {
	return State{Mode: ModeLogin}
}

// RequiredFields returns the fields that must be touched before the mode can
// submit.
func RequiredFields(m Mode) FieldSet {
	switch m {
	case ModeRegister:
		return Fields(FieldEmail, FieldPassword, FieldConfirmPassword, FieldName)
	case ModeResetRequest:
		return Fields(FieldEmail)
	case ModeResetConfirm:
		return Fields(FieldEmail, FieldSecretAnswer, FieldNewPassword)
	default:
		return Fields(FieldEmail, FieldPassword)
	}
}

// VisibleFields returns the inputs the mode shows, in display order.
func VisibleFields(m Mode) []Field {
	switch m {
	case ModeRegister:
		return []Field{FieldName, FieldEmail, FieldPassword, FieldConfirmPassword, FieldSecretQuestion, FieldSecretAnswer}
	case ModeResetRequest:
		return []Field{FieldEmail}
	case ModeResetConfirm:
		return []Field{FieldSecretAnswer, FieldNewPassword, FieldPasswordConfirm}
	default:
		return []Field{FieldEmail, FieldPassword}
	}
}

// CanSubmit reports whether the submit action is enabled.
func (s State) CanSubmit() bool {
	return !s.Busy && s.Touched.Contains(RequiredFields(s.Mode))
}

// Event is an input to Transition.
type Event interface{ isEvent() }

type (
	// Toggle switches between LOGIN and REGISTER. From a reset stage it returns to LOGIN.
	Toggle struct{}
	// RequestReset opens the secret-question lookup stage.
	RequestReset struct{}
	// Touch marks a field as visited.
	Touch struct{ Field Field }
	// SubmitStarted marks a call in flight.
	SubmitStarted struct{}
	// SubmitFinished clears the in-flight mark, whatever the outcome.
	SubmitFinished struct{}
	// QuestionFetched moves the reset flow to the answer stage.
	QuestionFetched struct{ Question string }
	// ResetSucceeded ends the reset flow.
	ResetSucceeded struct{}
	// Authenticated ends a login or registration.
	Authenticated struct{}
)

func (Toggle) isEvent()          {}
func (RequestReset) isEvent()    {}
func (Touch) isEvent()           {}
func (SubmitStarted) isEvent()   {}
func (SubmitFinished) isEvent()  {}
func (QuestionFetched) isEvent() {}
func (ResetSucceeded) isEvent()  {}
func (Authenticated) isEvent()   {}

// Transition returns the state that follows s after e. It never mutates s.
func Transition(s State, e Event) State {
	switch e := e.(type) {
	case Toggle:
		if s.Mode == ModeLogin {
			s.Mode = ModeRegister
		} else {
			s.Mode = ModeLogin
		}
		s.SecretQuestion = ""
	case RequestReset:
		s.Mode = ModeResetRequest
		s.SecretQuestion = ""
	case Touch:
		s.Touched = s.Touched.With(e.Field)
	case SubmitStarted:
		s.Busy = true
	case SubmitFinished:
		s.Busy = false
	case QuestionFetched:
		// A question that arrives after the user left the reset flow is dropped.
		if s.Mode == ModeResetRequest || s.Mode == ModeResetConfirm {
			s.Mode = ModeResetConfirm
			s.SecretQuestion = e.Question
		}
	case ResetSucceeded:
		if s.Mode == ModeResetConfirm {
			s.Mode = ModeLogin
			s.SecretQuestion = ""
		}
	case Authenticated:
		busy := s.Busy
		s = NewState()
		s.Busy = busy
	}
	return s
}
