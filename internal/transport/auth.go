package transport

import "net/http"

// Authenticator attaches a credential to an outgoing request. It is only
// called when the client holds a non-empty token.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth leaves requests untouched.
type NoAuth struct{}

func (NoAuth) Apply(*http.Request, string) {}

// BearerAuth sends the token as an Authorization bearer credential, which is
// what the Hugging Face Hub expects for HF_TOKEN.
type BearerAuth struct{}

func (BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
