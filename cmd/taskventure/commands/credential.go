package commands

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskventure/internal/credential"
	"github.com/nhle/taskventure/internal/model"
)

// credentialStore opens the keyring next to the config file.
func credentialStore(flags *globalFlags) *credential.Store {
	return credential.NewStore(filepath.Join(filepath.Dir(flags.configPath), "credentials"))
}

// NewCredentialCmd creates the credential command group.
func NewCredentialCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage secrets kept in the system keyring",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-imap",
		Short: "Store the password of the reminder mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			mail := cfg.Notifications.Mail
			if mail.Host == "" || mail.Username == "" {
				return fmt.Errorf("set notifications.mail.host and notifications.mail.username in %s first", flags.configPath)
			}

			var password string
			err = huh.NewInput().
				Title(fmt.Sprintf("IMAP password for %s@%s", mail.Username, mail.Host)).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}).
				Run()
			if err != nil {
				return err
			}
			if err := credentialStore(flags).SetIMAPPassword(mail, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "IMAP password saved")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-imap",
		Short: "Remove the stored mailbox password",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := credentialStore(flags).DeleteIMAPPassword(cfg.Notifications.Mail); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "IMAP password removed")
			return nil
		},
	})
	return cmd
}
