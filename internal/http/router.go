package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	Stations http.HandlerFunc
	Plan     http.HandlerFunc
	Health   http.HandlerFunc
}

// NewRouter registers endpoints. The optional middleware wraps every
// route except health.
func NewRouter(routes Routes, middleware func(http.Handler) http.Handler) http.Handler {
	wrap := func(h http.Handler) http.Handler {
		if middleware == nil {
			return h
		}
		return middleware(h)
	}

	mux := http.NewServeMux()
	if routes.Stations != nil {
		mux.Handle("/stations", wrap(method(http.MethodGet, routes.Stations)))
	}
	if routes.Plan != nil {
		mux.Handle("/plan", wrap(method(http.MethodPost, routes.Plan)))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
