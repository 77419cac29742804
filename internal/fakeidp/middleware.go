package fakeidp

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

type middleware func(http.HandlerFunc) http.HandlerFunc

// chain wraps h so the first middleware runs first
func chain(h http.HandlerFunc, mw ...middleware) http.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("fakeidp")
		next(w, r)
	}
}

// recoverMiddleware turns a handler panic into a 500 so a test sees a status instead of a reset connection
func recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Str("panic", fmt.Sprint(rec)).Str("path", r.URL.Path).Msg("fakeidp handler panicked")
				http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}
