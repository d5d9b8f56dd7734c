// Package state holds the login client's application state and the pure
// reducer that evolves it.
package state

const InitialStatusMessage = "Welcome"

// State is the client's view of its session. It is anonymous while
// AccessToken is empty and authenticated otherwise.
type State struct {
	AccessToken   string
	UserID        string
	Name          string
	StatusMessage string
}

// Initial returns the state of a client that has not logged in.
func Initial() State {
	return State{StatusMessage: InitialStatusMessage}
}

// Authenticated reports whether a token is held.
func (s State) Authenticated() bool {
	return s.AccessToken != ""
}

// Action describes a change to State. Only the types in this package
// implement it.
type Action interface {
	apply(State) State
}

type SetAccessToken struct {
	AccessToken string
}

type SetUserID struct {
	UserID string
}

type SetName struct {
	Name string
}

type SetStatusMessage struct {
	StatusMessage string
}

// Logout returns the client to the initial anonymous state.
type Logout struct{}

func (a SetAccessToken) apply(s State) State {
	s.AccessToken = a.AccessToken
	return s
}

func (a SetUserID) apply(s State) State {
	s.UserID = a.UserID
	return s
}

func (a SetName) apply(s State) State {
	s.Name = a.Name
	return s
}

func (a SetStatusMessage) apply(s State) State {
	s.StatusMessage = a.StatusMessage
	return s
}

func (Logout) apply(State) State {
	return Initial()
}

// Reduce returns the state that results from applying action to s.
// A nil action leaves s unchanged.
func Reduce(s State, action Action) State {
	if action == nil {
		return s
	}
	return action.apply(s)
}
