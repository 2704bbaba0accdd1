package sshkit

import "errors"

var (
	// ErrConnect wraps any dial, authentication, or protocol negotiation
	// failure reported while opening a session.
	ErrConnect = errors.New("ssh connection failed")

	// ErrNotOpen is returned when an operation is invoked before Open
	// or after Close.
	ErrNotOpen = errors.New("session not open")

	// ErrAlreadyOpen is returned by Open on a session that already holds
	// a live connection.
	ErrAlreadyOpen = errors.New("session already open")

	// ErrTransfer wraps mid-transfer failures and post-transfer size
	// confirmation mismatches.
	ErrTransfer = errors.New("transfer failed")

	// ErrHostKeyMismatch is returned when a host presents a key that
	// differs from the one recorded in known_hosts.
	ErrHostKeyMismatch = errors.New("host key mismatch")
)
