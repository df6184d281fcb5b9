package cmd

import (
	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewStoreCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:     "store <topology> <checkpoint-id>",
		Short:   "Store the state of an instance",
		Example: "checkpointstore store wordcount 0001 --component word --task-id 3 --namespace count=42",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("store")
			b, err := createBackend(cmd.Context(), v, l)
			if err != nil {
				return err
			}
			defer b.Close()

			state := &codec.InstanceState{
				CheckpointID: args[1],
				Namespace:    map[string][]byte{},
			}
			for key, value := range namespaceFlag(v) {
				state.Namespace[key] = []byte(value)
			}

			if err := b.Store(cmd.Context(), args[0], instanceFromFlags(v), state); err != nil {
				return err
			}
			l.Info("stored checkpoint",
				zap.String("topology", args[0]),
				zap.String("checkpoint_id", args[1]),
				zap.Int("entries", len(state.Namespace)),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	addServerFlag(flags, v)
	addStorageFlags(flags, v)
	addInstanceFlags(cmd, v)
	addNamespaceFlag(flags, v)

	return cmd
}
