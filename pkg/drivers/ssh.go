// Package drivers pkg/drivers/ssh.go
package drivers

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/carverauto/fleetmon/pkg/models"
)

// SSHError wraps SSH-specific errors with additional context.
type SSHError struct {
	Op      string
	Target  string
	Wrapped error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("SSH %s failed for target %s: %v", e.Op, e.Target, e.Wrapped)
}

func (e *SSHError) Unwrap() error {
	return e.Wrapped
}

// CryptoSSHDialer opens SSH command sessions using golang.org/x/crypto/ssh.
type CryptoSSHDialer struct{}

// Dial connects and authenticates to a device.
func (CryptoSSHDialer) Dial(host string, port int, creds models.Credentials, timeout time.Duration) (SSHSession, error) {
	if port == 0 {
		port = 22
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	config := &ssh.ClientConfig{
		User: creds.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(creds.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = creds.Password
				}

				return answers, nil
			}),
		},
		// Network gear rarely has stable host keys across RMAs; the
		// inventory is the trust anchor here.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))

	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, &SSHError{Op: "connect", Target: host, Wrapped: err}
	}

	return &sshSession{client: client, target: host}, nil
}

type sshSession struct {
	client *ssh.Client
	target string
}

// Execute runs a single exec command and returns its combined output.
func (s *sshSession) Execute(command string) (string, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return "", &SSHError{Op: "session", Target: s.target, Wrapped: err}
	}

	defer func() {
		_ = session.Close()
	}()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), &SSHError{Op: "execute", Target: s.target, Wrapped: err}
	}

	return string(output), nil
}

// Configure wraps commands in configuration mode and executes them as one
// batch, mirroring "conf t ... end" on IOS-style platforms.
func (s *sshSession) Configure(commands []string) (string, error) {
	batch := make([]string, 0, len(commands)+2)
	batch = append(batch, "configure terminal")
	batch = append(batch, commands...)
	batch = append(batch, "end")

	return s.Execute(strings.Join(batch, "\n"))
}

// BGPNeighbors returns parsed adjacency states from "show ip bgp summary".
func (s *sshSession) BGPNeighbors() ([]models.NeighborState, error) {
	output, err := s.Execute("show ip bgp summary")
	if err != nil {
		return nil, err
	}

	return ParseBGPSummary(output), nil
}

// OSPFNeighbors returns parsed adjacency states from "show ip ospf neighbor".
func (s *sshSession) OSPFNeighbors() ([]models.NeighborState, error) {
	output, err := s.Execute("show ip ospf neighbor")
	if err != nil {
		return nil, err
	}

	return ParseOSPFNeighbors(output), nil
}

func (s *sshSession) Close() error {
	return s.client.Close()
}
