package routetable

// Decision is the gate's verdict for one navigation.
type Decision int

const (
	// Allow renders the view.
	Allow Decision = iota
	// SignIn sends the visitor to the login entry point.
	SignIn
	// Deny refuses a signed-in user who lacks a capability.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case SignIn:
		return "sign-in"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// Principal is whatever the gate can learn about the caller.
type Principal struct {
	SignedIn     bool
	Capabilities []string
}

// Gate decides whether p may see m. A route with no requirements is open.
// Otherwise the caller must be signed in and hold every required capability.
// It keeps no state between calls.
func Gate(m Match, p Principal) Decision {
	if len(m.Requires) == 0 {
		return Allow
	}
	if !p.SignedIn {
		return SignIn
	}
	for _, need := range m.Requires {
		if !has(p.Capabilities, need) {
			return Deny
		}
	}
	return Allow
}

func has(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
