package form

import (
	"context"
	"sync"

	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/validation"
	"github.com/rs/zerolog/log"
)

// User-facing notification texts.
const (
	MsgLoggedIn          = "Logged in"
	MsgLoginRequired     = "Login required"
	MsgPasswordRequired  = "Password required"
	MsgInvalidCreds      = "Invalid credentials"
	MsgFillAllFields     = "Fill all fields, please"
	MsgSomethingWrong    = "Something went wrong"
	MsgAccountExists     = "An account with this login already exists"
	MsgQuestionFailed    = "Error fetching secret question"
	MsgPasswordChanged   = "Password changed successfully!"
	MsgPasswordNotChange = "Error changing password"
)

// Gateway is the credential API as seen by the form. *client.Client implements it.
type Gateway interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	SecretQuestion(ctx context.Context, email string) (models.SecretQuestion, error)
	ResetPassword(ctx context.Context, req models.ResetRequest) (string, error)
}

// Notifier shows transient feedback to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Values holds what the user typed into the form.
type Values struct {
	Email           string
	Name            string
	Password        string
	ConfirmPassword string
	SecretQuestion  models.SecretQuestion
	SecretAnswer    string
	NewPassword     string
	PasswordConfirm string
}

// Get returns the value of f.
func (v Values) Get(f Field) string {
	switch f {
	case FieldEmail:
		return v.Email
	case FieldName:
		return v.Name
	case FieldPassword:
		return v.Password
	case FieldConfirmPassword:
		return v.ConfirmPassword
	case FieldSecretQuestion:
		return string(v.SecretQuestion)
	case FieldSecretAnswer:
		return v.SecretAnswer
	case FieldNewPassword:
		return v.NewPassword
	case FieldPasswordConfirm:
		return v.PasswordConfirm
	}
	return ""
}

// With returns a copy of v with f set to value.
func (v Values) With(f Field, value string) Values {
	switch f {
	case FieldEmail:
		v.Email = value
	case FieldName:
		v.Name = value
	case FieldPassword:
		v.Password = value
	case FieldConfirmPassword:
		v.ConfirmPassword = value
	case FieldSecretQuestion:
		v.SecretQuestion = models.SecretQuestion(value)
	case FieldSecretAnswer:
		v.SecretAnswer = value
	case FieldNewPassword:
		v.NewPassword = value
	case FieldPasswordConfirm:
		v.PasswordConfirm = value
	}
	return v
}

// Outcome tags a submission result.
type Outcome int

const (
	// OutcomeRefused: the submit gate was closed or a call was already in flight.
	OutcomeRefused Outcome = iota
	// OutcomeInvalid: client-side validation blocked the call.
	OutcomeInvalid
	// OutcomeFailed: the server rejected the call or it never completed.
	OutcomeFailed
	OutcomeAuthenticated
	OutcomeQuestionReady
	OutcomePasswordReset
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRefused:
		return "refused"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeQuestionReady:
		return "question_ready"
	case OutcomePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of Submit. Kind is common.KindNone on success.
type Result struct {
	Outcome  Outcome
	Kind     common.ErrorKind
	Message  string
	Question models.SecretQuestion
	User     *models.User
}

// OK reports whether the submission succeeded.
func (r Result) OK() bool { return r.Kind == common.KindNone && r.Outcome > OutcomeFailed }

// Controller owns a form session. Its methods are safe for concurrent use;
// at most one submission is in flight at a time.
type Controller struct {
	mu      sync.Mutex
	state   State
	values  Values
	closed  bool
	gateway Gateway
	notify  Notifier
}

// NewController mounts a form in its initial state.
func NewController(gateway Gateway, notify Notifier) *Controller {
	return &Controller{state: NewState(), gateway: gateway, notify: notify}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Values returns the current input values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Dispatch applies e and returns the resulting state.
func (c *Controller) Dispatch(e Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Transition(c.state, e)
	return c.state
}

// Toggle switches between login and registration.
func (c *Controller) Toggle() State { return c.Dispatch(Toggle{}) }

// RequestReset opens the password reset flow.
func (c *Controller) RequestReset() State { return c.Dispatch(RequestReset{}) }

// BeginPasswordChange opens the reset flow for a signed-in user. The email
// comes from the session rather than from input.
func (c *Controller) BeginPasswordChange(email string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Transition(c.state, RequestReset{})
	c.values = c.values.With(FieldEmail, email)
	c.state = Transition(c.state, Touch{Field: FieldEmail})
	return c.state
}

// Set records a value for f and marks f as touched.
func (c *Controller) Set(f Field, value string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = c.values.With(f, value)
	c.state = Transition(c.state, Touch{Field: f})
	return c.state
}

// Close unmounts the form. Calls still in flight complete, but their results
// no longer change state or notify.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// acquire marks a submission in flight and snapshots the session. The
// returned release must be called exactly once on every path.
func (c *Controller) acquire() (State, Values, func(), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.state.CanSubmit() {
		return c.state, c.values, nil, false
	}
	c.state = Transition(c.state, SubmitStarted{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.state = Transition(c.state, SubmitFinished{})
		})
	}
	return c.state, c.values, release, true
}

// settle applies e and shows msg unless the form has been closed.
func (c *Controller) settle(e Event, success bool, msg string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Debug().Str("message", msg).Msg("Dropped result for closed form")
		return
	}
	if e != nil {
		c.state = Transition(c.state, e)
	}
	c.mu.Unlock()

	if c.notify == nil || msg == "" {
		return
	}
	if success {
		c.notify.Success(msg)
	} else {
		c.notify.Error(msg)
	}
}

func (c *Controller) invalid(msg string) Result {
	c.settle(nil, false, msg)
	return Result{Outcome: OutcomeInvalid, Kind: common.KindValidation, Message: msg}
}

func (c *Controller) failed(err error, msg string) Result {
	c.settle(nil, false, msg)
	return Result{Outcome: OutcomeFailed, Kind: common.KindOf(err), Message: msg}
}

// Submit runs the operation the current mode stands for.
func (c *Controller) Submit(ctx context.Context) Result {
	state, values, release, ok := c.acquire()
	if !ok {
		return Result{Outcome: OutcomeRefused, Kind: common.KindValidation, Message: "submit is disabled"}
	}
	defer release()

	switch state.Mode {
	case ModeRegister:
		return c.register(ctx, values)
	case ModeResetRequest:
		return c.fetchQuestion(ctx, values)
	case ModeResetConfirm:
		return c.resetPassword(ctx, values)
	default:
		return c.login(ctx, values)
	}
}

func (c *Controller) checkCredentialShape(v Values) (string, bool) {
	if !validation.ValidLogin(v.Email) {
		return validation.LoginRuleMessage, false
	}
	if !validation.ValidPassword(v.Password) {
		return validation.PasswordRuleMessage, false
	}
	return "", true
}

func (c *Controller) login(ctx context.Context, v Values) Result {
	if msg, ok := c.checkCredentialShape(v); !ok {
		return c.invalid(msg)
	}

	resp, err := c.gateway.Login(ctx, models.LoginRequest{Email: v.Email, Password: v.Password})
	if err != nil {
		// The authenticator gives no field detail; blame whichever field is empty.
		msg := MsgInvalidCreds
		switch {
		case v.Email == "":
			msg = MsgLoginRequired
		case v.Password == "":
			msg = MsgPasswordRequired
		case common.KindOf(err) == common.KindInternal:
			msg = MsgSomethingWrong
		}
		return c.failed(err, msg)
	}

	c.settle(Authenticated{}, true, MsgLoggedIn)
	return Result{Outcome: OutcomeAuthenticated, Message: MsgLoggedIn, User: &resp.User}
}

func (c *Controller) register(ctx context.Context, v Values) Result {
	if msg, ok := c.checkCredentialShape(v); !ok {
		return c.invalid(msg)
	}
	if !validation.PasswordsMatch(v.Password, v.ConfirmPassword) {
		return c.invalid(validation.MismatchMessage)
	}

	user, err := c.gateway.Register(ctx, models.RegisterRequest{
		Email:          v.Email,
		Name:           v.Name,
		Password:       v.Password,
		SecretQuestion: v.SecretQuestion,
		SecretAnswer:   v.SecretAnswer,
	})
	if err != nil {
		msg := MsgSomethingWrong
		switch {
		case v.Name == "" || v.Email == "" || v.Password == "" || v.SecretQuestion == "" || v.SecretAnswer == "":
			msg = MsgFillAllFields
		case common.KindOf(err) == common.KindConflict:
			msg = MsgAccountExists
		}
		return c.failed(err, msg)
	}

	c.settle(Authenticated{}, true, MsgLoggedIn)
	return Result{Outcome: OutcomeAuthenticated, Message: MsgLoggedIn, User: &user}
}

func (c *Controller) fetchQuestion(ctx context.Context, v Values) Result {
	question, err := c.gateway.SecretQuestion(ctx, v.Email)
	if err != nil {
		return c.failed(err, MsgQuestionFailed)
	}
	c.settle(QuestionFetched{Question: string(question)}, true, "")
	return Result{Outcome: OutcomeQuestionReady, Question: question}
}

func (c *Controller) resetPassword(ctx context.Context, v Values) Result {
	if !validation.ValidPassword(v.NewPassword) {
		return c.invalid(validation.PasswordRuleMessage)
	}
	if !validation.PasswordsMatch(v.NewPassword, v.PasswordConfirm) {
		return c.invalid(validation.MismatchMessage)
	}

	_, err := c.gateway.ResetPassword(ctx, models.ResetRequest{
		Email:        v.Email,
		SecretAnswer: v.SecretAnswer,
		NewPassword:  v.NewPassword,
	})
	if err != nil {
		return c.failed(err, MsgPasswordNotChange)
	}
	c.settle(ResetSucceeded{}, true, MsgPasswordChanged)
	return Result{Outcome: OutcomePasswordReset, Message: MsgPasswordChanged}
}
