package bloglist

import "github.com/google/uuid"

// Decision is the result of an ownership check
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide allows a mutation only when both ids are present and equal.
func Decide(requesterID, ownerID uuid.UUID) Decision {
	if requesterID == uuid.Nil || ownerID == uuid.Nil {
		return Deny
	}
	if requesterID != ownerID {
		return Deny
	}
	return Allow
}

// AuthOutcome classifies a request against a resource owner
type AuthOutcome int

const (
	Unauthenticated AuthOutcome = iota
	Forbidden
	Allowed
)

func (o AuthOutcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "unauthenticated"
	}
}

// Classify is the single authorization decision shared by the create and
// delete handlers. For create the owner is the requester itself.
func Classify(rc RequestContext, ownerID uuid.UUID) AuthOutcome {
	if rc.Token == "" || rc.Identity == nil || rc.Identity.ID == uuid.Nil {
		return Unauthenticated
	}
	if Decide(rc.Identity.ID, ownerID) == Deny {
		return Forbidden
	}
	return Allowed
}

// Err returns the error reported to the client for the outcome, nil when allowed.
// Both denial kinds answer 401.
func (o AuthOutcome) Err(rc RequestContext) error {
	switch o {
	case Allowed:
		return nil
	case Forbidden:
		return ErrOwnershipDenied
	}
	if rc.Token == "" {
		return ErrJWTMustBeProvided
	}
	return ErrTokenMissingOrInvalid
}
