package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRestoreCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "restore <topology> <checkpoint-id>",
		Short: "Print the restored state of an instance as json",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := createBackend(cmd.Context(), v, zap.L().Named("restore"))
			if err != nil {
				return err
			}
			defer b.Close()

			c, err := b.Restore(cmd.Context(), args[0], args[1], instanceFromFlags(v))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}

	flags := cmd.Flags()
	addServerFlag(flags, v)
	addStorageFlags(flags, v)
	addInstanceFlags(cmd, v)

	return cmd
}
