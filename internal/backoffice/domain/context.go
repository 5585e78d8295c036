package domain

// RequestContext is the resolved identity attached to an authenticated
// request: who is calling, against which organization, with what role, on
// what plan. It is derived per request and never persisted. Failing to
// resolve any field is an authorization failure, not a default.
type RequestContext struct {
	UserID string
	OrgID  string
	Role   Role
	Plan   string
}
