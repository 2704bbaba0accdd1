// Package sshkit wraps an SSH connection with scoped-resource semantics for
// running remote commands and transferring files over SFTP. A Session owns
// exactly one connection between Open and Close; every file operation opens a
// short-lived SFTP sub-channel for the duration of the call. Sessions are not
// safe for concurrent use.
package sshkit

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"
)

const defaultPort = 22

type Session struct {
	host     string
	user     string
	password string
	port     int

	knownHostsPath string
	maxPacket      int

	dial func() (transport, error)
	conn transport
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithKnownHostsFile overrides the default ~/.ssh/known_hosts location used
// by the trust-on-first-use host key policy.
func WithKnownHostsFile(path string) Option {
	return func(s *Session) {
		s.knownHostsPath = path
	}
}

// WithMaxPacket sets the maximum SFTP packet size in bytes for file
// operations on this session.
func WithMaxPacket(size int) Option {
	return func(s *Session) {
		s.maxPacket = size
	}
}

// NewSession prepares a session against host:port as user with password
// authentication. Port 0 means 22. No connection is made until Open.
func NewSession(host, user, password string, port int, opts ...Option) *Session {
	if port == 0 {
		port = defaultPort
	}
	s := &Session{
		host:     host,
		user:     user,
		password: password,
		port:     port,
	}
	s.dial = s.dialSSH
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the host:port the session targets.
func (s *Session) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Open establishes the connection. Unknown hosts are accepted and recorded
// in known_hosts; a host whose key changed is rejected. There is no retry.
func (s *Session) Open() error {
	if s.conn != nil {
		return ErrAlreadyOpen
	}
	conn, err := s.dial()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	s.conn = conn
	return nil
}

// Close terminates the connection. The session is unusable afterwards.
func (s *Session) Close() error {
	if s.conn == nil {
		return ErrNotOpen
	}
	conn := s.conn
	s.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Do opens the session, runs fn, and closes the session on every exit path,
// including a panic inside fn. A Close failure is reported only when fn
// itself succeeded.
func (s *Session) Do(fn func(*Session) error) (err error) {
	if err := s.Open(); err != nil {
		return err
	}
	defer func() {
		cerr := s.Close()
		if err == nil && !errors.Is(cerr, ErrNotOpen) {
			err = cerr
		}
	}()
	return fn(s)
}

func (s *Session) dialSSH() (transport, error) {
	hostKeyCallback, err := trustOnFirstUse(s.knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create host key callback: %w", err)
	}

	config := &ssh.ClientConfig{
		User: s.user,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.password),
		},
		HostKeyCallback: hostKeyCallback,
		Timeout:         30 * time.Second,
	}

	client, err := ssh.Dial("tcp", s.Addr(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	return &sshTransport{client: client, maxPacket: s.maxPacket}, nil
}
