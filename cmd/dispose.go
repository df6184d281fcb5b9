package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func NewDisposeCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "dispose <topology>...",
		Short: "Delete old checkpoints or whole topologies",
		Example: "checkpointstore dispose wordcount --oldest-to-keep 0005\n" +
			"checkpointstore dispose wordcount wordcount-staging --all",
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !deleteAllFlag(v) && oldestToKeepFlag(v) == "" {
				return errors.New("either --oldest-to-keep or --all is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("dispose")
			b, err := createBackend(cmd.Context(), v, l)
			if err != nil {
				return err
			}
			defer b.Close()

			g, ctx := errgroup.WithContext(cmd.Context())
			for _, topologyName := range args {
				g.Go(func() error {
					if err := b.Dispose(ctx, topologyName, oldestToKeepFlag(v), deleteAllFlag(v)); err != nil {
						return errors.Wrapf(err, "failed to dispose %s", topologyName)
					}
					l.Info("disposed checkpoints", zap.String("topology", topologyName))
					return nil
				})
			}
			return g.Wait()
		},
	}

	flags := cmd.Flags()
	addServerFlag(flags, v)
	addStorageFlags(flags, v)
	addOldestToKeepFlag(flags, v)
	addDeleteAllFlag(flags, v)

	return cmd
}
