package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/vasapolrittideah/auth-api/services/login-client/internal/state"
	"github.com/vasapolrittideah/auth-api/shared/payload"
)

const (
	StatusLoginSuccess = "Login Success"
	StatusLoginFailed  = "Login failed"
)

// LoginClient is the part of the auth API the form needs.
type LoginClient interface {
	Login(ctx context.Context, email, password string) (*payload.LoginResponse, error)
}

// Form collects credentials, submits them and keeps the resulting session
// in its state. It is not safe for concurrent use.
type Form struct {
	client LoginClient
	state  state.State
}

func New(client LoginClient, initial state.State) *Form {
	return &Form{client: client, state: initial}
}

// State returns the current application state.
func (f *Form) State() state.State {
	return f.state
}

// Dispatch applies action to the form's state.
func (f *Form) Dispatch(action state.Action) {
	f.state = state.Reduce(f.state, action)
}

// Submit calls the login endpoint once. Only a successful response moves
// the form to the authenticated state; any failure leaves it anonymous with
// a status message. The returned error is the cause of the failure.
func (f *Form) Submit(ctx context.Context, email, password string) error {
	resp, err := f.client.Login(ctx, email, password)
	if err != nil {
		f.loginFailed()
		return err
	}

	f.Dispatch(state.SetAccessToken{AccessToken: resp.AccessToken})
	f.Dispatch(state.SetUserID{UserID: resp.UserID})
	f.Dispatch(state.SetName{Name: resp.Name})
	f.Dispatch(state.SetStatusMessage{StatusMessage: StatusLoginSuccess})
	return nil
}

func (f *Form) loginFailed() {
	f.Dispatch(state.SetAccessToken{})
	f.Dispatch(state.SetStatusMessage{StatusMessage: StatusLoginFailed})
}

// Status renders the status line.
func (f *Form) Status() string {
	return "Status: " + f.state.StatusMessage
}

// View renders either the login prompt or, once authenticated, the
// placeholder for protected content.
func (f *Form) View() string {
	var b strings.Builder
	if f.state.Authenticated() {
		b.WriteString("Secrets\n")
		if f.state.Name != "" {
			fmt.Fprintf(&b, "Signed in as %s\n", f.state.Name)
		}
	} else {
		b.WriteString("Login\n")
		b.WriteString("Not registered yet? Sign up with -register\n")
	}
	b.WriteString(f.Status())
	return b.String()
}
