package middleware

import "net/http"

// PrivateLink marks responses to URLs that carry a secret: the page must not be
// cached, framed, or leak its URL through the Referer header of outgoing requests.
func PrivateLink(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
