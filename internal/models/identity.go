package models

// Identity is the caller resolved from the session token. AccountID is the
// internal numeric account id (the token subject); it is NOT the SAP id that
// bookings and results are keyed by — the workflows resolve that from the
// account row. Email backs the profile fallback lookup.
type Identity struct {
	Role      Role
	AccountID uint
	Email     string
}

// Authenticated reports whether the identity can be tied to an account at
// all. A zero AccountID with an email claim still counts: the profile flow
// resolves such callers by email.
func (i Identity) Authenticated() bool {
	return i.Role != "" && (i.AccountID != 0 || i.Email != "")
}
