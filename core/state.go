package core

type State int

const (
	StateNotLogged State = iota
	StateAcquiringRequestToken
	StateAuthorizing
	StateAcquiringAccessToken
	StateLogged
)

func (s State) String() string {
	switch s {
	case StateNotLogged:
		return "not_logged"
	case StateAcquiringRequestToken:
		return "acquiring_request_token"
	case StateAuthorizing:
		return "authorizing"
	case StateAcquiringAccessToken:
		return "acquiring_access_token"
	case StateLogged:
		return "logged"
	default:
		return "unknown"
	}
}

// InSession reports whether an authorization session exists in this state.
func (s State) InSession() bool {
	return s == StateAcquiringRequestToken || s == StateAuthorizing || s == StateAcquiringAccessToken
}

type StateEvent string

const (
	EventBegin           StateEvent = "begin"
	EventURLReady        StateEvent = "url_ready"
	EventCodeReceived    StateEvent = "code_received"
	EventTokenReceived   StateEvent = "token_received"
	EventRestored        StateEvent = "restored"
	EventFailed          StateEvent = "failed"
	EventCancelled       StateEvent = "cancelled"
	EventDeauthenticated StateEvent = "deauthenticated"
	EventUnauthorized    StateEvent = "unauthorized"
)

// Transition is the total transition function of the authorization state
// machine. A pair that is not allowed returns the input state and false.
func Transition(state State, event StateEvent) (State, bool) {
	switch event {
	case EventFailed, EventCancelled, EventDeauthenticated:
		return StateNotLogged, true
	}

	switch state {
	case StateNotLogged:
		switch event {
		case EventBegin:
			return StateAcquiringRequestToken, true
		case EventRestored:
			return StateLogged, true
		}
	case StateAcquiringRequestToken:
		if event == EventURLReady {
			return StateAuthorizing, true
		}
	case StateAuthorizing:
		switch event {
		case EventCodeReceived:
			return StateAcquiringAccessToken, true
		case EventTokenReceived:
			return StateLogged, true
		}
	case StateAcquiringAccessToken:
		if event == EventTokenReceived {
			return StateLogged, true
		}
	case StateLogged:
		switch event {
		case EventRestored:
			return StateLogged, true
		case EventUnauthorized:
			return StateNotLogged, true
		}
	}
	return state, false
}
