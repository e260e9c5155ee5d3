package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trainingpanel/internal/adapters/storage"
	"trainingpanel/internal/config"
	"trainingpanel/internal/domain/account"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, check and edit the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Long: `Init writes a sample trainingpanel.yaml with one demo user backed by a
local SQLite file.

Examples:
  trainingpanel config init
  trainingpanel config init /etc/trainingpanel.yaml --force`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runConfigInit,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and list users",
	RunE:  runConfigCheck,
}

var configHashCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for the users section",
	Long: `Hash-password prints a bcrypt hash that can replace a plaintext password
in the config. Without an argument the password is read from stdin.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runConfigHash,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configHashCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultFileName
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Sample().Save(path); err != nil {
		return err
	}
	logger.Info("config_event", "event", "sample_written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Change the demo password before serving.\n", path)
	return nil
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, name := range cfg.Usernames() {
		acct, _ := cfg.Lookup(name)
		ep, err := storage.ParseEndpoint(acct.Endpoint)
		if err != nil {
			return fmt.Errorf("user %q: %w", name, err)
		}
		password := "plaintext"
		if acct.IsHashed() {
			password = "bcrypt"
		}
		fmt.Fprintf(out, "%-20s %-9s password=%s\n", name, ep.Dialect, password)
	}
	fmt.Fprintf(out, "%d user(s) OK\n", len(cfg.Users))
	return nil
}

func runConfigHash(cmd *cobra.Command, args []string) error {
	var plaintext string
	if len(args) == 1 {
		plaintext = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password given on stdin")
		}
		plaintext = strings.TrimRight(line, "\r\n")
	}
	hash, err := account.HashPassword(plaintext)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
