package ship

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	dockerclient "github.com/docker/docker/client"
	"github.com/docker/go-connections/tlsconfig"

	"github.com/cuemby/anchorage/pkg/entities"
	anchorerrors "github.com/cuemby/anchorage/pkg/errors"
	"github.com/cuemby/anchorage/pkg/log"
)

// Client is a single Ship's engine connection: one Docker API client,
// reused across every task that targets containers on this host.
type Client struct {
	ship   *entities.Ship
	engine *dockerclient.Client
	tunnel *sshTunnel
}

// NewClient resolves ship's endpoint (SSH tunnel, Unix socket, or TCP, in
// that priority order per entities.Ship) and returns a Client ready to
// issue engine calls. The caller owns the returned Client and must call
// Close when done with it.
func NewClient(ship *entities.Ship) (*Client, error) {
	c := &Client{ship: ship}

	opts := []dockerclient.Opt{
		dockerclient.WithVersion(entities.DefaultEngineAPIVersion),
	}

	httpClient := &http.Client{
		Timeout: time.Duration(ship.EffectiveTimeout()) * time.Second,
	}

	switch {
	case ship.SSHTunnel != nil:
		if ship.SSHTunnel.User == "" || ship.SSHTunnel.Key == "" {
			return nil, fmt.Errorf("ship %s: ssh tunnel requires user and key", ship.Name)
		}
		tunnel, err := dialSSHTunnel(ship)
		if err != nil {
			return nil, fmt.Errorf("ship %s: opening ssh tunnel: %w", ship.Name, err)
		}
		// Absorb the tunnel-establishment race: the local listener is
		// already accepting, but give the remote side a moment before
		// the first real request lands on it.
		time.Sleep(time.Second)
		c.tunnel = tunnel

		scheme := "http"
		if ship.TLS.Enabled {
			scheme = "https"
		}
		opts = append(opts, dockerclient.WithHost(fmt.Sprintf("%s://%s", scheme, tunnel.localAddr())))

	case ship.SocketPath != "":
		abs, err := filepath.Abs(ship.SocketPath)
		if err != nil {
			return nil, fmt.Errorf("ship %s: resolving socket path: %w", ship.Name, err)
		}
		opts = append(opts, dockerclient.WithHost("unix://"+abs))

	default:
		scheme := "http"
		if ship.TLS.Enabled {
			scheme = "https"
		}
		host := fmt.Sprintf("%s://%s:%d", scheme, ship.EffectiveEndpoint(), ship.EffectivePort())
		opts = append(opts, dockerclient.WithHost(host))
	}

	if ship.TLS.Enabled {
		tlsOpts := tlsconfig.Options{
			CAFile:             ship.TLS.CACert,
			CertFile:           ship.TLS.ClientCert,
			KeyFile:            ship.TLS.ClientKey,
			InsecureSkipVerify: !ship.TLS.Verify,
		}
		if ship.TLS.SSLVersion != "" {
			minVersion, err := tlsMinVersion(ship.TLS.SSLVersion)
			if err != nil {
				if c.tunnel != nil {
					c.tunnel.close()
				}
				return nil, fmt.Errorf("ship %s: %w", ship.Name, err)
			}
			tlsOpts.MinVersion = minVersion
		}
		tlsConfig, err := tlsconfig.Client(tlsOpts)
		if err != nil {
			if c.tunnel != nil {
				c.tunnel.close()
			}
			return nil, fmt.Errorf("ship %s: building TLS config: %w", ship.Name, err)
		}
		transport := &http.Transport{TLSClientConfig: tlsConfig}
		httpClient.Transport = transport
	}

	opts = append(opts, dockerclient.WithHTTPClient(httpClient))

	engine, err := dockerclient.NewClientWithOpts(opts...)
	if err != nil {
		if c.tunnel != nil {
			c.tunnel.close()
		}
		return nil, fmt.Errorf("ship %s: building engine client: %w", ship.Name, err)
	}
	c.engine = engine
	shipLogger := log.WithShip(ship.Name)
	shipLogger.Debug().Str("host", engine.DaemonHost()).Msg("engine client ready")
	return c, nil
}

// tlsMinVersion maps a configured ssl_version name to the crypto/tls
// constant tlsconfig expects.
func tlsMinVersion(name string) (uint16, error) {
	switch strings.ToUpper(name) {
	case "TLSV1", "TLSV1.0":
		return tls.VersionTLS10, nil
	case "TLSV1.1":
		return tls.VersionTLS11, nil
	case "TLSV1.2":
		return tls.VersionTLS12, nil
	case "TLSV1.3":
		return tls.VersionTLS13, nil
	}
	return 0, fmt.Errorf("unsupported ssl version %q", name)
}

// engineErr classifies an engine-call failure. A connection-level
// failure becomes a *errors.TransientHostError carrying this Ship's
// name, so the task engine can tell "host down" apart from a real API
// error with errors.As; anything else is wrapped as a plain error.
func (c *Client) engineErr(cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if dockerclient.IsErrConnectionFailed(cause) {
		return anchorerrors.NewTransientHostError(c.ship.Name, fmt.Errorf("%s: %w", msg, cause))
	}
	return fmt.Errorf("%s: %w", msg, cause)
}

// Ping verifies the engine is reachable, for readiness probes and
// ship-reachability reporting.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.engine.Ping(ctx); err != nil {
		return c.engineErr(err, "pinging engine")
	}
	return nil
}

// Close releases the underlying engine client and, if one is open, the
// SSH tunnel.
func (c *Client) Close() error {
	var tunnelErr error
	if c.tunnel != nil {
		tunnelErr = c.tunnel.close()
	}
	if err := c.engine.Close(); err != nil {
		return err
	}
	return tunnelErr
}
