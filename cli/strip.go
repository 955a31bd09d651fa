package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhubert/stowaway/injector"
)

func newStripCmd() *cobra.Command {
	var restoreBackup bool

	cmd := &cobra.Command{
		Use:   "strip <host>",
		Short: "Remove every trace of the session from the host",
		Long: `Strip removes the session's marker blocks and deletes its sidecar,
companion copy, and backup. With --restore-backup the host is rewritten
from the pre-injection backup instead of scanning for markers, which
recovers from damaged markers or unwanted edits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := service().Strip(cmd.Context(), args[0], injector.StripOptions{
				RestoreBackup: restoreBackup,
			})
			if err != nil {
				return err
			}
			if restoreBackup {
				cmd.Printf("Restored %s from backup (session %s removed).\n", res.HostPath, res.SessionID)
			} else {
				cmd.Printf("Stripped %s (session %s removed).\n", res.HostPath, res.SessionID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&restoreBackup, "restore-backup", false, "rewrite the host from the pre-injection backup")

	return cmd
}
