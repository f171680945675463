package lifecycle

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPProbe succeeds when a GET (or Method) request to URL returns a
// status code in [StatusMin, StatusMax].
type HTTPProbe struct {
	URL       string
	Method    string
	Headers   map[string]string
	StatusMin int
	StatusMax int
	Client    *http.Client
}

// NewHTTPProbe returns an HTTPProbe accepting any 2xx/3xx response.
func NewHTTPProbe(url string) *HTTPProbe {
	return &HTTPProbe{
		URL:       url,
		Method:    http.MethodGet,
		StatusMin: 200,
		StatusMax: 399,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPProbe) Test(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, p.Method, p.URL, nil)
	if err != nil {
		return false
	}
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= p.StatusMin && resp.StatusCode <= p.StatusMax
}

func (p *HTTPProbe) String() string {
	return fmt.Sprintf("http(%s %s)", p.Method, p.URL)
}
