package webclient

import (
	"net/http"

	"mangaparsers/internal/parser"
)

// interceptTransport hands every outgoing request to a plugin interceptor
// before passing it on.
type interceptTransport struct {
	next        http.RoundTripper
	interceptor parser.Interceptor
}

func (t *interceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(t.interceptor.Intercept(req))
}
