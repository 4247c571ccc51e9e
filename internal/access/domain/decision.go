package domain

import "time"

// Decision is the outcome of presenting a token.
type Decision string

const (
	// DecisionAllow means the token is consumable and the profile may be projected.
	DecisionAllow Decision = "ALLOW"
	// DecisionExpired means the token reached its expiry instant.
	DecisionExpired Decision = "EXPIRED"
	// DecisionInvalid covers unknown, mismatched, revoked and already-consumed tokens alike.
	DecisionInvalid Decision = "INVALID"
)

// Evaluate is the state check applied to a stored token at instant now.
// Revocation wins over expiry so a revoked token never reports EXPIRED.
func Evaluate(token *AccessToken, now time.Time) Decision {
	if token == nil || token.IsRevoked() {
		return DecisionInvalid
	}
	if token.IsExpired(now) {
		return DecisionExpired
	}
	return DecisionAllow
}
