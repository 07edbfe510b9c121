package app

import "net/http"

type sessionKey string

const (
	SessionKeyGuest = sessionKey("guest")
)

func (s sessionKey) String() string {
	return string(s)
}

// contextGetSessionId returns the scs session token for the request. The
// token is the opaque session identity that owns seat holds; the core never
// authenticates it.
func (app *Application) contextGetSessionId(r *http.Request) string {
	return app.sessionManager.Token(r.Context())
}
