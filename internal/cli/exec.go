package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/lite-lake/sshkit"
	"github.com/lite-lake/sshkit/internal/logger"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <host> <command>...",
	Short: "Run a single command on a remote host",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := sessionFor(args[0])
		if err != nil {
			return err
		}
		command := strings.Join(args[1:], " ")

		return session.Do(func(s *sshkit.Session) error {
			logger.Debug("running command", "addr", s.Addr(), "command", command)
			stdout, stderr, err := s.ExecCommand(command)
			if err != nil {
				return err
			}
			os.Stdout.Write(stdout)
			if len(stderr) > 0 {
				fmt.Fprint(os.Stderr, errorStyle.Render(string(stderr)))
			}
			return nil
		})
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script <host> <interpreter> <command>...",
	Short: "Pipe commands into an interpreter on a remote host",
	Long:  "Starts the first command on the remote side and feeds the remaining commands into its stdin, followed by exit. The first command must be an interpreter such as sh.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := sessionFor(args[0])
		if err != nil {
			return err
		}

		return session.Do(func(s *sshkit.Session) error {
			logger.Debug("running piped commands", "addr", s.Addr(), "count", len(args)-1)
			stdout, stderr, err := s.ExecCommands(args[1:])
			if err != nil {
				return err
			}
			os.Stdout.Write(stdout)
			if len(stderr) > 0 {
				fmt.Fprint(os.Stderr, errorStyle.Render(string(stderr)))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(scriptCmd)
}
