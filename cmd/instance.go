package cmd

import (
	"github.com/foomo/checkpointstore/pkg/checkpoint"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func addInstanceFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	addComponentFlag(flags, v)
	addTaskIDFlag(flags, v)
	_ = cmd.MarkFlagRequired("component")
}

func instanceFromFlags(v *viper.Viper) checkpoint.Instance {
	return checkpoint.Instance{
		Info: checkpoint.InstanceInfo{
			TaskID:        taskIDFlag(v),
			ComponentName: componentFlag(v),
		},
	}
}
