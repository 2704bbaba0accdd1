package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lite-lake/sshkit"
	"gopkg.in/yaml.v3"
)

type HostEntry struct {
	Name        string `yaml:"name"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"password_env"`
}

type HostsConfig struct {
	Hosts []HostEntry `yaml:"hosts"`
}

func LoadHosts(path string) (*HostsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file: %w", err)
	}

	cfg := &HostsConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hosts file %s: %w", path, err)
	}

	for i := range cfg.Hosts {
		h := &cfg.Hosts[i]
		if h.Name == "" {
			return nil, fmt.Errorf("hosts file %s: entry %d has no name", path, i)
		}
		if h.Host == "" {
			return nil, fmt.Errorf("hosts file %s: host %q has no address", path, h.Name)
		}
	}
	return cfg, nil
}

func (c *HostsConfig) Find(name string) (*HostEntry, bool) {
	for i := range c.Hosts {
		if c.Hosts[i].Name == name {
			return &c.Hosts[i], true
		}
	}
	return nil, false
}

// sessionFor resolves target against the hosts file, falling back to an
// ad-hoc user@host[:port] form. Passwords come from the entry, its
// password_env variable, or an interactive prompt.
func sessionFor(target string) (*sshkit.Session, error) {
	if cfg, err := LoadHosts(HostsFile); err == nil {
		if entry, ok := cfg.Find(target); ok {
			password, err := resolvePassword(entry)
			if err != nil {
				return nil, err
			}
			return sshkit.NewSession(entry.Host, entry.User, password, entry.Port), nil
		}
	}

	user, host, port, ok := parseTarget(target)
	if !ok {
		return nil, fmt.Errorf("unknown host %q: not in %s and not of the form user@host[:port]", target, HostsFile)
	}
	password, err := promptPassword(fmt.Sprintf("%s@%s password: ", user, host))
	if err != nil {
		return nil, err
	}
	return sshkit.NewSession(host, user, password, port), nil
}

func resolvePassword(entry *HostEntry) (string, error) {
	if entry.Password != "" {
		return entry.Password, nil
	}
	if entry.PasswordEnv != "" {
		if v := os.Getenv(entry.PasswordEnv); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("host %q: environment variable %s is empty", entry.Name, entry.PasswordEnv)
	}
	return promptPassword(fmt.Sprintf("%s@%s password: ", entry.User, entry.Host))
}

func parseTarget(target string) (user, host string, port int, ok bool) {
	user, rest, found := strings.Cut(target, "@")
	if !found || user == "" || rest == "" {
		return "", "", 0, false
	}

	host = rest
	if h, p, found := strings.Cut(rest, ":"); found {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return "", "", 0, false
		}
		host, port = h, n
	}
	if host == "" {
		return "", "", 0, false
	}
	return user, host, port, true
}
