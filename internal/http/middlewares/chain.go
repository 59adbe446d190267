// Package middlewares contains the HTTP decorators shared by every route.
package middlewares

import "net/http"

// Middleware decora un http.Handler. chi lo acepta tal cual en Use/With.
type Middleware func(http.Handler) http.Handler

// Compose junta middlewares en uno solo; el primero queda más afuera.
// Los nil se ignoran para poder pasar opcionales sin ifs.
func Compose(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				h = mws[i](h)
			}
		}
		return h
	}
}

// Wrap aplica mws sobre h: Wrap(h, A, B) ejecuta A -> B -> h.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	return Compose(mws...)(h)
}
