package middleware

import "net/http"

// Stack composes middleware functions into one, applied outermost first.
//
//	stack := Stack(loggingMw.Handler, identityMw.WithIdentity, identityMw.RequireIdentity)
//	mux.Handle("POST /api/recommendations", stack(handler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
