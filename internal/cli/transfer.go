package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lite-lake/sshkit"
	"github.com/lite-lake/sshkit/internal/logger"
	"github.com/spf13/cobra"
)

var noConfirm bool

var uploadCmd = &cobra.Command{
	Use:   "upload <host> <local> <remote>",
	Short: "Upload a local file to a remote path",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := sessionFor(args[0])
		if err != nil {
			return err
		}
		local, remote := args[1], args[2]

		return session.Do(func(s *sshkit.Session) error {
			logger.Debug("uploading", "addr", s.Addr(), "local", local, "remote", remote)

			var attrs *sshkit.FileAttrs
			err := runWithProgress("upload "+filepath.Base(local), func(progress sshkit.ProgressFunc) error {
				opts := []sshkit.TransferOption{sshkit.WithProgress(progress)}
				if noConfirm {
					opts = append(opts, sshkit.WithoutConfirm())
				}
				var err error
				attrs, err = s.Upload(local, remote, opts...)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, okStyle.Render(fmt.Sprintf("uploaded %s (%d bytes)", remote, attrs.Size)))
			return nil
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <host> <remote> <local>",
	Short: "Download a remote file to a local path",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := sessionFor(args[0])
		if err != nil {
			return err
		}
		remote, local := args[1], args[2]

		return session.Do(func(s *sshkit.Session) error {
			logger.Debug("downloading", "addr", s.Addr(), "remote", remote, "local", local)

			var attrs *sshkit.FileAttrs
			err := runWithProgress("download "+filepath.Base(remote), func(progress sshkit.ProgressFunc) error {
				opts := []sshkit.TransferOption{sshkit.WithProgress(progress)}
				if noConfirm {
					opts = append(opts, sshkit.WithoutConfirm())
				}
				var err error
				attrs, err = s.Download(remote, local, opts...)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, okStyle.Render(fmt.Sprintf("downloaded %s (%d bytes)", local, attrs.Size)))
			return nil
		})
	},
}

func init() {
	uploadCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip the post-transfer size check")
	downloadCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip the post-transfer size check")
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
}
