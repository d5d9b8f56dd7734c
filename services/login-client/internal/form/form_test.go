package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/auth-api/services/login-client/internal/state"
	"github.com/vasapolrittideah/auth-api/shared/payload"
)

type loginStub struct {
	resp  *payload.LoginResponse
	err   error
	calls int
}

func (s *loginStub) Login(_ context.Context, _, _ string) (*payload.LoginResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestSubmitSuccess(t *testing.T) {
	stub := &loginStub{resp: &payload.LoginResponse{UserID: "1", AccessToken: "tok", Name: "ada"}}
	f := New(stub, state.Initial())
	assert.Contains(t, f.View(), "Login")

	require.NoError(t, f.Submit(context.Background(), "a@x.com", "secret12"))

	s := f.State()
	assert.True(t, s.Authenticated())
	assert.Equal(t, state.State{AccessToken: "tok", UserID: "1", Name: "ada", StatusMessage: "Login Success"}, s)
	assert.Contains(t, f.View(), "Secrets")
	assert.Contains(t, f.View(), "Signed in as ada")
	assert.Equal(t, "Status: Login Success", f.Status())
	assert.Equal(t, 1, stub.calls)
}

func TestSubmitFailureStaysAnonymous(t *testing.T) {
	loginErr := errors.New("status 404")
	stub := &loginStub{err: loginErr}
	f := New(stub, state.Initial())

	err := f.Submit(context.Background(), "a@x.com", "nope")
	assert.ErrorIs(t, err, loginErr)

	assert.False(t, f.State().Authenticated())
	assert.Equal(t, "Status: Login failed", f.Status())
	assert.Contains(t, f.View(), "Login")
	assert.Equal(t, 1, stub.calls, "failed submissions are not retried")
}

func TestSubmitFailureDropsPreviousToken(t *testing.T) {
	stub := &loginStub{err: errors.New("boom")}
	f := New(stub, state.State{AccessToken: "old", StatusMessage: "Login Success"})

	_ = f.Submit(context.Background(), "a@x.com", "nope")
	assert.False(t, f.State().Authenticated())
}

func TestDispatchLogout(t *testing.T) {
	stub := &loginStub{resp: &payload.LoginResponse{UserID: "1", AccessToken: "tok", Name: "ada"}}
	f := New(stub, state.Initial())
	require.NoError(t, f.Submit(context.Background(), "a@x.com", "secret12"))

	f.Dispatch(state.Logout{})
	assert.Equal(t, state.Initial(), f.State())
}
