package entities

import (
	"net"
	"net/url"
)

// Registry is one configured image-registry credential set, keyed by
// name in a Graph's Registries map.
type Registry struct {
	Name     string
	URL      string
	Username string
	Password string
	Email    string
}

// Insecure reports whether the registry's configured URL scheme is
// plain http, meaning pulls/pushes against it should not require TLS.
func (r Registry) Insecure() bool {
	u, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	return u.Scheme == "http"
}

// Host returns the registry URL's host, without port.
func (r Registry) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
