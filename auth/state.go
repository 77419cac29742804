package auth

// State is a step of a guest flow run. A run only ever moves forward.
type State string

const (
	StateStart                   State = "start"
	StateDiscovering             State = "discovering"
	StateDiscoveryFailed         State = "discovery-failed"
	StateDiscovered              State = "discovered"
	StateExchanging              State = "exchanging"
	StateExchangeTransportFailed State = "exchange-transport-failed"
	StateGrantDenied             State = "grant-denied"
	StateTokenIssued             State = "token-issued"
	StateCalling                 State = "calling"
	StateDone                    State = "done"
)

// Terminal reports whether no further transition is possible from s
func (s State) Terminal() bool {
	switch s {
	case StateDiscoveryFailed, StateExchangeTransportFailed, StateGrantDenied, StateDone:
		return true
	}
	return false
}

var transitions = map[State][]State{
	StateStart:       {StateDiscovering},
	StateDiscovering: {StateDiscoveryFailed, StateDiscovered},
	StateDiscovered:  {StateExchanging},
	StateExchanging:  {StateExchangeTransportFailed, StateGrantDenied, StateTokenIssued},
	StateTokenIssued: {StateCalling},
	StateCalling:     {StateDone},
}

// CanTransition reports whether to directly follows from
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
