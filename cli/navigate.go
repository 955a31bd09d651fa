package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zhubert/stowaway/injector"
)

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <host>",
		Short: "Advance the host to the following page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := service().Next(cmd.Context(), args[0])
			if errors.Is(err, injector.ErrAtBoundary) {
				cmd.Println("Already at the last page.")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("Now at page %d/%d.\n", res.Page, res.PageCount)
			return nil
		},
	}
}

func newPrevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev <host>",
		Short: "Move the host back to the preceding page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := service().Prev(cmd.Context(), args[0])
			if errors.Is(err, injector.ErrAtBoundary) {
				cmd.Println("Already at the first page.")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("Now at page %d/%d.\n", res.Page, res.PageCount)
			return nil
		},
	}
}

func newGotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto <host> <page>",
		Short: "Jump the host to a page by zero-based index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid page number %q", args[1])
			}
			res, err := service().Goto(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			cmd.Printf("Now at page %d/%d.\n", res.Page, res.PageCount)
			return nil
		},
	}
}
