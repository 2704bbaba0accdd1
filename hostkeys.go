package sshkit

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// trustOnFirstUse builds a host key callback that accepts and records keys
// for hosts missing from the known_hosts file, and rejects hosts whose
// recorded key changed. An empty path means ~/.ssh/known_hosts.
func trustOnFirstUse(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if knownHostsPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv("HOME")
		}
		knownHostsPath = filepath.Join(homeDir, ".ssh", "known_hosts")
	}

	if _, err := os.Stat(knownHostsPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(knownHostsPath), 0700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(knownHostsPath, []byte{}, 0600); err != nil {
			return nil, err
		}
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, err
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) {
			return err
		}

		if len(keyErr.Want) > 0 {
			return fmt.Errorf("%w: %s", ErrHostKeyMismatch, hostname)
		}

		return appendKnownHost(knownHostsPath, hostname, key)
	}, nil
}

// appendKnownHost records a newly seen host key. The append is guarded by a
// file lock so concurrent sessions sharing one known_hosts file do not
// interleave writes.
func appendKnownHost(knownHostsPath, hostname string, key ssh.PublicKey) error {
	lock := flock.New(knownHostsPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock known_hosts: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(knownHostsPath, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open known_hosts: %w", err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{hostname}, key)
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("failed to write to known_hosts: %w", err)
	}
	return nil
}
