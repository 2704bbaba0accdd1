package sshkit

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func generateHostKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("failed to convert key: %v", err)
	}
	return sshPub
}

func testRemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("192.0.2.1"), Port: 22}
}

func TestTrustOnFirstUse_RecordsUnknownHost(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), ".ssh", "known_hosts")
	key := generateHostKey(t)

	callback, err := trustOnFirstUse(knownHosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := callback("example.com:22", testRemoteAddr(), key); err != nil {
		t.Fatalf("expected unknown host to be accepted, got %v", err)
	}

	data, err := os.ReadFile(knownHosts)
	if err != nil {
		t.Fatalf("failed to read known_hosts: %v", err)
	}
	if !strings.Contains(string(data), "example.com") {
		t.Errorf("expected host recorded in known_hosts, got %q", data)
	}
}

func TestTrustOnFirstUse_AcceptsRecordedHost(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), ".ssh", "known_hosts")
	key := generateHostKey(t)

	callback, err := trustOnFirstUse(knownHosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := callback("example.com:22", testRemoteAddr(), key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh callback sees the recorded key and accepts without appending.
	callback, err = trustOnFirstUse(knownHosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := callback("example.com:22", testRemoteAddr(), key); err != nil {
		t.Fatalf("expected recorded host to be accepted, got %v", err)
	}

	data, err := os.ReadFile(knownHosts)
	if err != nil {
		t.Fatalf("failed to read known_hosts: %v", err)
	}
	if got := strings.Count(string(data), "example.com"); got != 1 {
		t.Errorf("expected exactly one known_hosts entry, got %d", got)
	}
}

func TestTrustOnFirstUse_RejectsChangedKey(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), ".ssh", "known_hosts")

	callback, err := trustOnFirstUse(knownHosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := callback("example.com:22", testRemoteAddr(), generateHostKey(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	callback, err = trustOnFirstUse(knownHosts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = callback("example.com:22", testRemoteAddr(), generateHostKey(t))
	if !errors.Is(err, ErrHostKeyMismatch) {
		t.Errorf("expected ErrHostKeyMismatch for changed key, got %v", err)
	}
}

func TestTrustOnFirstUse_InvalidKnownHosts(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(knownHosts, []byte("invalid content"), 0600); err != nil {
		t.Fatalf("failed to write known_hosts: %v", err)
	}

	if _, err := trustOnFirstUse(knownHosts); err == nil {
		t.Error("expected error for malformed known_hosts")
	}
}
