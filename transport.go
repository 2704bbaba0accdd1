package sshkit

import (
	"io"
	"os"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// transport is the connection seam between Session and the underlying SSH
// client, so tests can substitute a fake without a network.
type transport interface {
	newExecChannel() (execChannel, error)
	newSFTP() (sftpConn, error)
	Close() error
}

// execChannel is one remote command execution channel.
type execChannel interface {
	setStreams(stdout, stderr io.Writer)
	stdinPipe() (io.WriteCloser, error)
	run(cmd string) error
	start(cmd string) error
	wait() error
	Close() error
}

// sftpConn is a short-lived SFTP sub-channel, opened per file operation.
type sftpConn interface {
	Open(path string) (remoteFile, error)
	OpenFile(path string, flag int) (remoteFile, error)
	Create(path string) (remoteFile, error)
	Stat(path string) (os.FileInfo, error)
	Close() error
}

type remoteFile interface {
	io.Reader
	io.Writer
	io.Closer
}

type sshTransport struct {
	client    *ssh.Client
	maxPacket int
}

func (t *sshTransport) newExecChannel() (execChannel, error) {
	sess, err := t.client.NewSession()
	if err != nil {
		return nil, err
	}
	return &sshExecChannel{session: sess}, nil
}

func (t *sshTransport) newSFTP() (sftpConn, error) {
	var opts []sftp.ClientOption
	if t.maxPacket > 0 {
		opts = append(opts, sftp.MaxPacket(t.maxPacket))
	}
	client, err := sftp.NewClient(t.client, opts...)
	if err != nil {
		return nil, err
	}
	return &realSFTP{client: client}, nil
}

func (t *sshTransport) Close() error {
	return t.client.Close()
}

type sshExecChannel struct {
	session *ssh.Session
}

func (c *sshExecChannel) setStreams(stdout, stderr io.Writer) {
	c.session.Stdout = stdout
	c.session.Stderr = stderr
}

func (c *sshExecChannel) stdinPipe() (io.WriteCloser, error) {
	return c.session.StdinPipe()
}

func (c *sshExecChannel) run(cmd string) error   { return c.session.Run(cmd) }
func (c *sshExecChannel) start(cmd string) error { return c.session.Start(cmd) }
func (c *sshExecChannel) wait() error            { return c.session.Wait() }
func (c *sshExecChannel) Close() error           { return c.session.Close() }

type realSFTP struct {
	client *sftp.Client
}

func (c *realSFTP) Open(path string) (remoteFile, error) {
	return c.client.Open(path)
}

func (c *realSFTP) OpenFile(path string, flag int) (remoteFile, error) {
	return c.client.OpenFile(path, flag)
}

func (c *realSFTP) Create(path string) (remoteFile, error) {
	return c.client.Create(path)
}

func (c *realSFTP) Stat(path string) (os.FileInfo, error) {
	return c.client.Stat(path)
}

func (c *realSFTP) Close() error {
	return c.client.Close()
}
