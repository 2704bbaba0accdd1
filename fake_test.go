package sshkit

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"
)

// fakeTransport records lifecycle events so tests can assert that a session
// opens exactly once and always closes, and that every file operation opens
// and releases its own SFTP sub-channel.
type fakeTransport struct {
	events []string

	fs       *fakeFS
	execFn   func(ch *fakeExecChannel)
	closeErr error

	sftpOpens  int
	sftpCloses int
	execOpens  int
	closes     int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{fs: newFakeFS()}
}

// install points the session's dialer at this fake, counting dials.
func (t *fakeTransport) install(s *Session) *int {
	dials := new(int)
	s.dial = func() (transport, error) {
		*dials++
		t.events = append(t.events, "open")
		return t, nil
	}
	return dials
}

func (t *fakeTransport) newExecChannel() (execChannel, error) {
	t.execOpens++
	ch := &fakeExecChannel{}
	if t.execFn != nil {
		t.execFn(ch)
	}
	return ch, nil
}

func (t *fakeTransport) newSFTP() (sftpConn, error) {
	t.sftpOpens++
	return &fakeSFTPConn{transport: t, fs: t.fs}, nil
}

func (t *fakeTransport) Close() error {
	t.closes++
	t.events = append(t.events, "close")
	return t.closeErr
}

type fakeExecChannel struct {
	stdout io.Writer
	stderr io.Writer
	stdin  bytes.Buffer

	startedCmd string
	runErr     error
	startErr   error

	// onRun handles a single ExecCommand invocation.
	onRun func(cmd string, stdout, stderr io.Writer) error
	// onWait handles an ExecCommands invocation after stdin closed.
	onWait func(cmd, stdin string, stdout, stderr io.Writer) error

	closed bool
}

func (c *fakeExecChannel) setStreams(stdout, stderr io.Writer) {
	c.stdout = stdout
	c.stderr = stderr
}

func (c *fakeExecChannel) stdinPipe() (io.WriteCloser, error) {
	return nopWriteCloser{&c.stdin}, nil
}

func (c *fakeExecChannel) run(cmd string) error {
	if c.runErr != nil {
		return c.runErr
	}
	if c.onRun != nil {
		return c.onRun(cmd, c.stdout, c.stderr)
	}
	return nil
}

func (c *fakeExecChannel) start(cmd string) error {
	c.startedCmd = cmd
	return c.startErr
}

func (c *fakeExecChannel) wait() error {
	if c.onWait != nil {
		return c.onWait(c.startedCmd, c.stdin.String(), c.stdout, c.stderr)
	}
	return nil
}

func (c *fakeExecChannel) Close() error {
	c.closed = true
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// fakeFS is an in-memory remote filesystem shared across SFTP sub-channels.
type fakeFS struct {
	files map[string][]byte

	// statSizeOffset corrupts reported sizes to exercise confirmation.
	statSizeOffset int64
	openErr        error
	createErr      error
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string][]byte)}
}

type fakeSFTPConn struct {
	transport *fakeTransport
	fs        *fakeFS
	closed    bool
}

func (c *fakeSFTPConn) Open(path string) (remoteFile, error) {
	if c.fs.openErr != nil {
		return nil, c.fs.openErr
	}
	data, ok := c.fs.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return &fakeRemoteFile{fs: c.fs, path: path, reader: bytes.NewReader(data)}, nil
}

func (c *fakeSFTPConn) OpenFile(path string, flag int) (remoteFile, error) {
	if flag&os.O_APPEND == 0 {
		c.fs.files[path] = nil
	} else if _, ok := c.fs.files[path]; !ok {
		c.fs.files[path] = nil
	}
	return &fakeRemoteFile{fs: c.fs, path: path}, nil
}

func (c *fakeSFTPConn) Create(path string) (remoteFile, error) {
	if c.fs.createErr != nil {
		return nil, c.fs.createErr
	}
	c.fs.files[path] = nil
	return &fakeRemoteFile{fs: c.fs, path: path}, nil
}

func (c *fakeSFTPConn) Stat(path string) (os.FileInfo, error) {
	data, ok := c.fs.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return fakeFileInfo{
		name: path,
		size: int64(len(data)) + c.fs.statSizeOffset,
	}, nil
}

func (c *fakeSFTPConn) Close() error {
	c.closed = true
	c.transport.sftpCloses++
	return nil
}

type fakeRemoteFile struct {
	fs       *fakeFS
	path     string
	reader   *bytes.Reader
	writeErr error
}

func (f *fakeRemoteFile) Read(p []byte) (int, error) {
	if f.reader == nil {
		return 0, errors.New("not opened for reading")
	}
	return f.reader.Read(p)
}

func (f *fakeRemoteFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.fs.files[f.path] = append(f.fs.files[f.path], p...)
	return len(p), nil
}

func (f *fakeRemoteFile) Close() error { return nil }

type fakeFileInfo struct {
	name string
	size int64
}

func (i fakeFileInfo) Name() string       { return i.name }
func (i fakeFileInfo) Size() int64        { return i.size }
func (i fakeFileInfo) Mode() os.FileMode  { return 0644 }
func (i fakeFileInfo) ModTime() time.Time { return time.Unix(1700000000, 0) }
func (i fakeFileInfo) IsDir() bool        { return false }
func (i fakeFileInfo) Sys() any           { return nil }
