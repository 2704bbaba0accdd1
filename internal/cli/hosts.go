package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List hosts from the hosts file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadHosts(HostsFile)
		if err != nil {
			return err
		}

		title := cases.Title(language.English)
		fmt.Printf("%-16s %-28s %s\n",
			titleStyle.Render(title.String("name")),
			titleStyle.Render(title.String("address")),
			titleStyle.Render(title.String("user")))

		for _, h := range cfg.Hosts {
			port := h.Port
			if port == 0 {
				port = 22
			}
			auth := ""
			if h.Password == "" && h.PasswordEnv == "" {
				auth = dimStyle.Render(" (password prompted)")
			}
			fmt.Printf("%-16s %-28s %s%s\n", h.Name, fmt.Sprintf("%s:%d", h.Host, port), h.User, auth)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostsCmd)
}
