package cli

import (
	"errors"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zhubert/stowaway/injector"
)

func newStatusCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "status <host>",
		Short: "Report the active session and whether the host has drifted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := service().Status(cmd.Context(), args[0])
			if errors.Is(err, injector.ErrNoSession) {
				cmd.Printf("No injection present for %s.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			sess := st.Session
			cmd.Printf("Session:   %s\n", sess.ID)
			cmd.Printf("Host:      %s\n", sess.HostPath)
			cmd.Printf("Document:  %s\n", sess.DocumentPath)
			cmd.Printf("Page:      %d/%d\n", sess.CurrentPage, sess.PageCount)
			cmd.Printf("Unit:      %s (%d per page, %d snippets)\n", sess.Unit, sess.PageSize, sess.SnippetsPerPage)
			cmd.Printf("Prefix:    %q\n", sess.CommentPrefix)
			cmd.Printf("Sidecar:   %s\n", st.SidecarPath)
			cmd.Printf("Companion: %s\n", sess.CompanionPath)
			cmd.Printf("Backup:    %s\n", sess.BackupPath)
			cmd.Printf("Updated:   %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))

			if !st.Drifted {
				cmd.Println("Drift:     none")
				return nil
			}

			cmd.Println("Drift:     HOST MODIFIED since the last command")
			if showDiff && st.Diff != nil {
				dmp := diffmatchpatch.New()
				cmd.Println(dmp.DiffPrettyText(st.Diff))
			} else {
				cmd.Println("Run 'stowaway status --diff' to see the changes, or 'stowaway strip --restore-backup' to recover.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show how the host deviates from the engine's last write")

	return cmd
}
