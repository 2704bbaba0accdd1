package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	HostsFile   string
	ShowVersion bool
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "sshkit",
	Short:         "Run commands and move files over SSH",
	Long:          "sshkit runs remote commands and transfers files over SSH/SFTP against hosts from a hosts file or an ad-hoc user@host target.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if ShowVersion {
			fmt.Println(Version)
			os.Exit(0)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&HostsFile, "config", "c", "hosts.yaml", "Hosts file")
	rootCmd.PersistentFlags().BoolVarP(&ShowVersion, "version", "v", false, "Show version information")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
