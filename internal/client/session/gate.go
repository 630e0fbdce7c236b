package session

import "context"

// Gate is the access check run before entering a protected view. It holds
// no state of its own and must be consulted on every navigation attempt:
// token expiry is time-dependent, so a cached verdict would go stale.
type Gate struct {
	store *Store
	nav   Navigator
}

func NewGate(store *Store, nav Navigator) *Gate {
	return &Gate{store: store, nav: nav}
}

// CanEnter reports whether the protected view may be entered. On failure it
// redirects to the sign-in view and returns false.
func (g *Gate) CanEnter(ctx context.Context) bool {
	if g.store.IsAuthenticated(ctx) {
		return true
	}
	g.nav.NavigateToSignIn()
	return false
}
