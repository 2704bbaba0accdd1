package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/lite-lake/sshkit"
	"github.com/lite-lake/sshkit/internal/logger"
	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <host> <remote>",
	Short: "Print a remote file to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := sessionFor(args[0])
		if err != nil {
			return err
		}

		return session.Do(func(s *sshkit.Session) error {
			logger.Debug("reading remote file", "addr", s.Addr(), "remote", args[1])
			data, err := s.Read(args[1])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		})
	},
}

var appendFlag bool

var writeCmd = &cobra.Command{
	Use:   "write <host> <remote>",
	Short: "Write stdin to a remote file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}

		session, err := sessionFor(args[0])
		if err != nil {
			return err
		}

		return session.Do(func(s *sshkit.Session) error {
			flag := 0
			if appendFlag {
				flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
			}
			logger.Debug("writing remote file", "addr", s.Addr(), "remote", args[1], "bytes", len(data), "append", appendFlag)
			return s.Write(data, args[1], flag)
		})
	},
}

func init() {
	writeCmd.Flags().BoolVar(&appendFlag, "append", false, "Append instead of truncating")
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(writeCmd)
}
