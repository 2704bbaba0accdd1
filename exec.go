package sshkit

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// ExecCommand runs a single command on a new execution channel and returns
// its captured stdout and stderr. A nonzero remote exit status is not an
// error: the captured output is returned and callers inspect it themselves.
func (s *Session) ExecCommand(cmd string) (stdout, stderr []byte, err error) {
	if s.conn == nil {
		return nil, nil, ErrNotOpen
	}

	channel, err := s.conn.newExecChannel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer channel.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	channel.setStreams(&stdoutBuf, &stderrBuf)

	if err := channel.run(cmd); err != nil && !isExitError(err) {
		return stdoutBuf.Bytes(), stderrBuf.Bytes(), fmt.Errorf("failed to run command: %w", err)
	}
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), nil
}

// ExecCommands starts cmds[0] on a new execution channel, writes each
// remaining command line-by-line into its stdin followed by a terminating
// "exit", then closes stdin and waits. The first command must launch an
// interpreter that consumes the rest as piped input; output is the
// concatenated capture of the whole sequence.
func (s *Session) ExecCommands(cmds []string) (stdout, stderr []byte, err error) {
	if s.conn == nil {
		return nil, nil, ErrNotOpen
	}
	if len(cmds) == 0 {
		return nil, nil, errors.New("no commands given")
	}

	channel, err := s.conn.newExecChannel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer channel.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	channel.setStreams(&stdoutBuf, &stderrBuf)

	stdin, err := channel.stdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := channel.start(cmds[0]); err != nil {
		return nil, nil, fmt.Errorf("failed to start command: %w", err)
	}

	for _, cmd := range cmds[1:] {
		if _, err := io.WriteString(stdin, cmd+"\n"); err != nil {
			stdin.Close()
			return stdoutBuf.Bytes(), stderrBuf.Bytes(), fmt.Errorf("failed to write to stdin: %w", err)
		}
	}
	if _, err := io.WriteString(stdin, "exit\n"); err != nil {
		stdin.Close()
		return stdoutBuf.Bytes(), stderrBuf.Bytes(), fmt.Errorf("failed to write to stdin: %w", err)
	}
	stdin.Close()

	if err := channel.wait(); err != nil && !isExitError(err) {
		return stdoutBuf.Bytes(), stderrBuf.Bytes(), fmt.Errorf("command failed: %w", err)
	}
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), nil
}

func isExitError(err error) bool {
	var exitErr *ssh.ExitError
	return errors.As(err, &exitErr)
}
