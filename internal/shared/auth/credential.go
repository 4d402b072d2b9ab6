package auth

import "strings"

// Credential is the request-context object carrying the operator's bearer token. It is
// passed explicitly to every REST call instead of being read from shared state.
type Credential struct {
	Token string
}

// Anonymous is used for calls made before a session exists (login).
var Anonymous = Credential{}

// Present reports whether the credential carries a token.
func (c Credential) Present() bool {
	return strings.TrimSpace(c.Token) != ""
}

// AuthorizationHeader returns the header value for the credential, or "" when absent.
func (c Credential) AuthorizationHeader() string {
	if !c.Present() {
		return ""
	}
	return "Bearer " + strings.TrimSpace(c.Token)
}

// CredentialSource hands out the credential that is current at call time.
type CredentialSource interface {
	Credential() Credential
}

// StaticCredential is a CredentialSource that always returns the same credential.
type StaticCredential Credential

func (s StaticCredential) Credential() Credential { return Credential(s) }
