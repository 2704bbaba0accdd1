package sshkit

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ProgressFunc receives the number of bytes transferred so far and the total
// to transfer. Total is -1 when the source size is unknown.
type ProgressFunc func(transferred, total int64)

// FileAttrs describes a transferred file as reported by the remote stat.
type FileAttrs struct {
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
}

type transferOptions struct {
	progress ProgressFunc
	confirm  bool
}

type TransferOption func(*transferOptions)

// WithProgress registers a callback invoked incrementally during the copy.
func WithProgress(fn ProgressFunc) TransferOption {
	return func(o *transferOptions) {
		o.progress = fn
	}
}

// WithoutConfirm skips the post-transfer stat that verifies the transferred
// size. Faster, less safe.
func WithoutConfirm() TransferOption {
	return func(o *transferOptions) {
		o.confirm = false
	}
}

func newTransferOptions(opts []TransferOption) transferOptions {
	o := transferOptions{confirm: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Upload copies a local file to remotePath and returns the remote file's
// attributes. With confirmation on (the default) the remote size is checked
// against the bytes written.
func (s *Session) Upload(localPath, remotePath string, opts ...TransferOption) (*FileAttrs, error) {
	if s.conn == nil {
		return nil, ErrNotOpen
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	info, err := localFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat local file: %w", err)
	}

	return s.upload(localFile, info.Size(), remotePath, newTransferOptions(opts))
}

// UploadFrom copies the contents of r to remotePath. The total reported to a
// progress callback is -1 unless r can be sized via Stat or Seek.
func (s *Session) UploadFrom(r io.Reader, remotePath string, opts ...TransferOption) (*FileAttrs, error) {
	if s.conn == nil {
		return nil, ErrNotOpen
	}
	return s.upload(r, readerSize(r), remotePath, newTransferOptions(opts))
}

func (s *Session) upload(src io.Reader, total int64, remotePath string, o transferOptions) (*FileAttrs, error) {
	sftpConn, err := s.conn.newSFTP()
	if err != nil {
		return nil, fmt.Errorf("failed to open sftp: %w", err)
	}
	defer sftpConn.Close()

	remote, err := sftpConn.Create(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file: %w", err)
	}

	written, err := copyWithProgress(remote, src, total, o.progress)
	if cerr := remote.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	if !o.confirm {
		return &FileAttrs{Size: written}, nil
	}

	info, err := sftpConn.Stat(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file: %w", err)
	}
	if info.Size() != written {
		return nil, fmt.Errorf("%w: remote size %d after writing %d bytes", ErrTransfer, info.Size(), written)
	}
	return fileAttrs(info), nil
}

// Download fetches remotePath into localPath and returns the remote file's
// attributes. Progress and confirmation are honored the same way as Upload.
func (s *Session) Download(remotePath, localPath string, opts ...TransferOption) (*FileAttrs, error) {
	if s.conn == nil {
		return nil, ErrNotOpen
	}
	o := newTransferOptions(opts)

	sftpConn, err := s.conn.newSFTP()
	if err != nil {
		return nil, fmt.Errorf("failed to open sftp: %w", err)
	}
	defer sftpConn.Close()

	info, err := sftpConn.Stat(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file: %w", err)
	}

	remote, err := sftpConn.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file: %w", err)
	}
	defer remote.Close()

	local, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file: %w", err)
	}

	written, err := copyWithProgress(local, remote, info.Size(), o.progress)
	if cerr := local.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	if o.confirm && written != info.Size() {
		return nil, fmt.Errorf("%w: wrote %d bytes, remote size %d", ErrTransfer, written, info.Size())
	}
	return fileAttrs(info), nil
}

// Write opens remotePath with the given os.O_* flag set and writes data in
// one call. Flag 0 means truncate-write (O_WRONLY|O_CREATE|O_TRUNC); pass
// os.O_WRONLY|os.O_CREATE|os.O_APPEND to append.
func (s *Session) Write(data []byte, remotePath string, flag int) error {
	if s.conn == nil {
		return ErrNotOpen
	}
	if flag == 0 {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	sftpConn, err := s.conn.newSFTP()
	if err != nil {
		return fmt.Errorf("failed to open sftp: %w", err)
	}
	defer sftpConn.Close()

	remote, err := sftpConn.OpenFile(remotePath, flag)
	if err != nil {
		return fmt.Errorf("failed to open remote file: %w", err)
	}

	_, err = remote.Write(data)
	if cerr := remote.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write remote file: %w", err)
	}
	return nil
}

// Read returns the entire contents of remotePath.
func (s *Session) Read(remotePath string) ([]byte, error) {
	if s.conn == nil {
		return nil, ErrNotOpen
	}

	sftpConn, err := s.conn.newSFTP()
	if err != nil {
		return nil, fmt.Errorf("failed to open sftp: %w", err)
	}
	defer sftpConn.Close()

	remote, err := sftpConn.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file: %w", err)
	}
	defer remote.Close()

	data, err := io.ReadAll(remote)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote file: %w", err)
	}
	return data, nil
}

func fileAttrs(info os.FileInfo) *FileAttrs {
	return &FileAttrs{
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}
}

func copyWithProgress(dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	if progress == nil {
		return io.Copy(dst, src)
	}

	var written int64
	buf := make([]byte, 32*1024)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			progress(written, total)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return written, nil
			}
			return written, rerr
		}
	}
}

func readerSize(r io.Reader) int64 {
	if f, ok := r.(interface{ Stat() (os.FileInfo, error) }); ok {
		if info, err := f.Stat(); err == nil {
			return info.Size()
		}
	}
	if seeker, ok := r.(io.Seeker); ok {
		cur, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		end, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return -1
		}
		if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
			return -1
		}
		return end - cur
	}
	return -1
}
