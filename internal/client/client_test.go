package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/messenger-auth/internal/api"
	"github.com/isdelr/messenger-auth/internal/auth"
	"github.com/isdelr/messenger-auth/internal/common"
	"github.com/isdelr/messenger-auth/internal/database"
	"github.com/isdelr/messenger-auth/internal/form"
	"github.com/isdelr/messenger-auth/internal/models"
	"github.com/isdelr/messenger-auth/internal/services"
	"github.com/isdelr/messenger-auth/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type quickHasher struct{ auth.BcryptHasher }

func (h quickHasher) Hash(plaintext string, _ int) (string, error) {
	return h.BcryptHasher.Hash(plaintext, bcrypt.MinCost)
}

func newStack(t *testing.T) *Client {
	t.Helper()
	db, err := database.New(database.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))

	users := store.NewSQLUserStore(db, database.DriverSQLite)
	events := services.NewEventService(db, database.DriverSQLite)
	authn := auth.NewJWTAuthenticator(users, quickHasher{}, "test-secret", time.Hour)
	router := api.NewRouter(api.RouterOptions{}, authn,
		services.NewCredentialService(users, quickHasher{}, authn, events),
		services.NewRecoveryService(users, quickHasher{}, events),
		events)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", time.Second)
	require.Error(t, err)
	_, err = New("://nope", time.Second)
	require.Error(t, err)
}

func TestClient_RecoveryScenario(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	user, err := c.Register(ctx, models.RegisterRequest{
		Email: "user1", Name: "Bob", Password: "Passw0rd",
		SecretQuestion: models.SecretQuestionDogsName, SecretAnswer: "Rex",
	})
	require.NoError(t, err)
	require.Equal(t, "user1", user.Email)

	// Registration left a session cookie in the jar.
	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	q, err := c.SecretQuestion(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, models.SecretQuestionDogsName, q)

	msg, err := c.ResetPassword(ctx, models.ResetRequest{Email: "user1", SecretAnswer: "Rex", NewPassword: "NewPass1"})
	require.NoError(t, err)
	require.Equal(t, "Password successfully changed", msg)

	_, err = c.Login(ctx, models.LoginRequest{Email: "user1", Password: "Passw0rd"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	login, err := c.Login(ctx, models.LoginRequest{Email: "user1", Password: "NewPass1"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	events, err := c.Events(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestClient_ErrorMapping(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()

	_, err := c.SecretQuestion(ctx, "")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = c.SecretQuestion(ctx, "ghost1")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorContains(t, err, "User not found")

	_, err = c.ResetPassword(ctx, models.ResetRequest{Email: "ghost1", SecretAnswer: "x", NewPassword: "NewPass1"})
	require.ErrorIs(t, err, common.ErrorNotFound)

	req := models.RegisterRequest{Email: "user1", Name: "Bob", Password: "Passw0rd", SecretQuestion: "Dogs_Name", SecretAnswer: "Rex"}
	_, err = c.Register(ctx, req)
	require.NoError(t, err)
	_, err = c.Register(ctx, req)
	require.ErrorIs(t, err, common.ErrorConflict)
}

func TestStatusError(t *testing.T) {
	require.ErrorIs(t, statusError(http.StatusBadGateway, ""), common.ErrorInternal)
	require.ErrorContains(t, statusError(http.StatusBadGateway, ""), "Bad Gateway")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second)
	require.NoError(t, err)
	_, err = c.SecretQuestion(context.Background(), "user1")
	require.Equal(t, common.KindInternal, common.KindOf(err))
}

type toasts struct{ ok, bad []string }

func (n *toasts) Success(msg string) { n.ok = append(n.ok, msg) }
func (n *toasts) Error(msg string)   { n.bad = append(n.bad, msg) }

func TestFormControllerAgainstServer(t *testing.T) {
	c := newStack(t)
	ctx := context.Background()
	n := &toasts{}
	ctrl := form.NewController(c, n)

	ctrl.Toggle()
	ctrl.Set(form.FieldName, "Bob")
	ctrl.Set(form.FieldEmail, "bobby1")
	ctrl.Set(form.FieldPassword, "Passw0rd")
	ctrl.Set(form.FieldConfirmPassword, "Passw0rd")
	ctrl.Set(form.FieldSecretQuestion, string(models.SecretQuestionSchoolNumber))
	ctrl.Set(form.FieldSecretAnswer, "57")
	require.Equal(t, form.OutcomeAuthenticated, ctrl.Submit(ctx).Outcome)

	ctrl.RequestReset()
	ctrl.Set(form.FieldEmail, "bobby1")
	res := ctrl.Submit(ctx)
	require.Equal(t, form.OutcomeQuestionReady, res.Outcome)
	require.Equal(t, "School_Number", ctrl.State().SecretQuestion)

	ctrl.Set(form.FieldSecretAnswer, "58")
	ctrl.Set(form.FieldNewPassword, "NewPass1")
	ctrl.Set(form.FieldPasswordConfirm, "NewPass1")
	res = ctrl.Submit(ctx)
	require.Equal(t, form.OutcomeFailed, res.Outcome)
	require.Equal(t, common.KindAuthorization, res.Kind)

	ctrl.Set(form.FieldSecretAnswer, "57")
	require.Equal(t, form.OutcomePasswordReset, ctrl.Submit(ctx).Outcome)
	require.Equal(t, form.ModeLogin, ctrl.State().Mode)

	ctrl.Set(form.FieldPassword, "NewPass1")
	res = ctrl.Submit(ctx)
	require.True(t, res.OK())
	require.Equal(t, "bobby1", res.User.Email)

	require.Equal(t, []string{form.MsgLoggedIn, form.MsgPasswordChanged, form.MsgLoggedIn}, n.ok)
	require.Equal(t, []string{form.MsgPasswordNotChange}, n.bad)
}
