package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/taskventure/internal/notify"
)

// NewNotifyCmd creates the notify command group.
func NewNotifyCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Inspect and deliver scheduled reminders",
	}
	cmd.AddCommand(newNotifyRunCmd(flags))
	cmd.AddCommand(newNotifyPendingCmd(flags))
	return cmd
}

func newNotifyRunCmd(flags *globalFlags) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deliver due reminders until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			sinks := []notify.Sink{notify.NewLogSink(e.logger.Named("reminder"))}
			if mail := e.cfg.Notifications.Mail; mail.Enabled {
				sinks = append(sinks, notify.NewMailSink(mail, credentialStore(flags).PasswordFunc(mail)))
				e.logger.Info("mail delivery enabled", zap.String("host", mail.Host), zap.String("mailbox", mail.Mailbox))
			}

			d := notify.NewDispatcher(e.db, e.pollInterval(), e.logger.Named("dispatcher"), sinks...)
			if once {
				fired, err := d.Tick(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to deliver reminders: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Delivered %d reminders\n", len(fired))
				return nil
			}
			if err := d.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "deliver what is due now and exit")
	return cmd
}

func newNotifyPendingCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List reminders waiting to fire",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), flags, openOptions{})
			if err != nil {
				return err
			}
			defer e.Close()

			pending, err := e.scheduler.Pending(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list reminders: %w", err)
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending reminders")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIRE AT\tTITLE\tBODY\tID")
			for _, n := range pending {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.FireAt.Local().Format("2006-01-02 15:04"), n.Title, n.Body, n.ID)
			}
			return tw.Flush()
		},
	}
}
