package drive

import (
	"net/http"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing requestsPerSecond outbound requests,
// with a burst of one second's worth. It returns nil when pacing is disabled.
func NewLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), max(int(requestsPerSecond), 1))
}

// pacedTransport delays outbound requests to stay under the limiter's rate.
// It never retries; a request whose context expires while waiting fails.
type pacedTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func newPacedTransport(base http.RoundTripper, limiter *rate.Limiter) *pacedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &pacedTransport{limiter: limiter, base: base}
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
