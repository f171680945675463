package ship

import (
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/cuemby/anchorage/pkg/entities"
)

// sshTunnel forwards connections accepted on an ephemeral local port to a
// Ship's engine port through an SSH connection, so the engine client can
// talk to "localhost:<local-port>" as if the engine were local.
type sshTunnel struct {
	client   *ssh.Client
	listener net.Listener
	remote   string
}

func dialSSHTunnel(s *entities.Ship) (*sshTunnel, error) {
	key, err := os.ReadFile(s.SSHTunnel.Key)
	if err != nil {
		return nil, fmt.Errorf("reading ssh key %s: %w", s.SSHTunnel.Key, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parsing ssh key %s: %w", s.SSHTunnel.Key, err)
	}

	port := s.SSHTunnel.Port
	if port == 0 {
		port = entities.DefaultSSHPort
	}

	config := &ssh.ClientConfig{
		User:            s.SSHTunnel.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	sshAddr := fmt.Sprintf("%s:%d", s.EffectiveEndpoint(), port)
	client, err := ssh.Dial("tcp", sshAddr, config)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", sshAddr, err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("opening local tunnel listener: %w", err)
	}

	t := &sshTunnel{
		client:   client,
		listener: listener,
		remote:   fmt.Sprintf("%s:%d", s.EffectiveEndpoint(), s.EffectivePort()),
	}
	go t.serve()
	return t, nil
}

func (t *sshTunnel) localAddr() string {
	return t.listener.Addr().String()
}

func (t *sshTunnel) serve() {
	for {
		local, err := t.listener.Accept()
		if err != nil {
			return
		}
		go t.forward(local)
	}
}

func (t *sshTunnel) forward(local net.Conn) {
	defer local.Close()

	remote, err := t.client.Dial("tcp", t.remote)
	if err != nil {
		return
	}
	defer remote.Close()

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(remote, local) //nolint:errcheck
		done <- struct{}{}
	}()
	go func() {
		io.Copy(local, remote) //nolint:errcheck
		done <- struct{}{}
	}()
	<-done
}

func (t *sshTunnel) close() error {
	listenErr := t.listener.Close()
	clientErr := t.client.Close()
	if listenErr != nil {
		return listenErr
	}
	return clientErr
}
