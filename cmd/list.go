package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewListCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "list <topology>",
		Short: "List the checkpoint ids of a topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := createBackend(cmd.Context(), v, zap.L().Named("list"))
			if err != nil {
				return err
			}
			defer b.Close()

			ids, err := b.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addServerFlag(flags, v)
	addStorageFlags(flags, v)

	return cmd
}
