package cli

import (
	"github.com/spf13/cobra"

	"github.com/zhubert/stowaway/injector"
)

func newInjectCmd() *cobra.Command {
	var (
		pageSize     int
		snippets     int
		unit         string
		prefix       string
		companionDir string
		local        bool
	)

	cmd := &cobra.Command{
		Use:   "inject <document> <host>",
		Short: "Hide the first page of a document in a host file",
		Long: `Inject paginates the document, keeps a private copy of it, backs up the
host, and scatters page 0 through the host as comment blocks. The host
must not already carry an active session.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := service().Inject(cmd.Context(), injector.InjectOptions{
				DocumentPath:    args[0],
				HostPath:        args[1],
				PageSize:        pageSize,
				SnippetsPerPage: snippets,
				Unit:            unit,
				CommentPrefix:   prefix,
				CompanionDir:    companionDir,
				Local:           local || loadedConfig.Local,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Injected %s: page 0/%d (session %s)\n", res.HostPath, res.PageCount, res.SessionID)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 0, "units per page (default 40)")
	cmd.Flags().IntVar(&snippets, "snippets", 0, "comment blocks per page (default 6)")
	cmd.Flags().StringVar(&unit, "unit", "", "pagination unit: chars or lines (default chars)")
	cmd.Flags().StringVar(&prefix, "comment-prefix", "", "line comment prefix (default inferred from host extension)")
	cmd.Flags().StringVar(&companionDir, "companion-dir", "", "directory for the document copy and host backup")
	cmd.Flags().BoolVar(&local, "local", false, "keep session files in .stowaway beside the host")

	return cmd
}
