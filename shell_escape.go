package sshkit

import "strings"

// ShellEscape single-quotes s for safe interpolation into a remote command
// line passed to ExecCommand or ExecCommands.
func ShellEscape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
