package cmd

import (
	"time"

	"github.com/foomo/checkpointstore/pkg/checkpoint"
	"github.com/foomo/checkpointstore/pkg/codec"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "CHECKPOINT_STORE_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/checkpoints", "Base path to export the webserver on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "CHECKPOINT_STORE_BASE_PATH")
}

func serverFlag(v *viper.Viper) string {
	return v.GetString("server")
}

func addServerFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("server", "", "Url of a checkpoint server, the local storage is used if empty")
	_ = v.BindPFlag("server", flags.Lookup("server"))
	_ = v.BindEnv("server", "CHECKPOINT_STORE_SERVER")
}

func rootPathFlag(v *viper.Viper) string {
	return v.GetString(checkpoint.ConfigKeyRootPath)
}

func addRootPathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("root-path", "~/.checkpoints", "Root directory of the checkpoints")
	_ = v.BindPFlag(checkpoint.ConfigKeyRootPath, flags.Lookup("root-path"))
	_ = v.BindEnv(checkpoint.ConfigKeyRootPath, "CHECKPOINT_STORE_ROOT_PATH")
}

func maxCheckpointsFlag(v *viper.Viper) int {
	return v.GetInt(checkpoint.ConfigKeyMaxCheckpoints)
}

func addMaxCheckpointsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("max-checkpoints", checkpoint.DefaultMaxCheckpoints, "Number of checkpoints to keep per topology")
	_ = v.BindPFlag(checkpoint.ConfigKeyMaxCheckpoints, flags.Lookup("max-checkpoints"))
	_ = v.BindEnv(checkpoint.ConfigKeyMaxCheckpoints, "CHECKPOINT_STORE_MAX_CHECKPOINTS")
}

func codecFlag(v *viper.Viper) string {
	return v.GetString(checkpoint.ConfigKeyCodec)
}

func addCodecFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("codec", codec.NameProto, "Checkpoint file encoding (proto, json)")
	_ = v.BindPFlag(checkpoint.ConfigKeyCodec, flags.Lookup("codec"))
	_ = v.BindEnv(checkpoint.ConfigKeyCodec, "CHECKPOINT_STORE_CODEC")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", storageTypeOS, "Storage backend (os, blob)")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "CHECKPOINT_STORE_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "Blob bucket url (gs://, s3://, azblob://, file://)")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "CHECKPOINT_STORE_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix within the blob bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "CHECKPOINT_STORE_STORAGE_BLOB_PREFIX")
}

func componentFlag(v *viper.Viper) string {
	return v.GetString("component")
}

func addComponentFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("component", "", "Component name of the instance")
	_ = v.BindPFlag("component", flags.Lookup("component"))
}

func taskIDFlag(v *viper.Viper) int32 {
	return v.GetInt32("task_id")
}

func addTaskIDFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int32("task-id", 0, "Task id of the instance")
	_ = v.BindPFlag("task_id", flags.Lookup("task-id"))
}

func namespaceFlag(v *viper.Viper) map[string]string {
	return v.GetStringMapString("namespace")
}

func addNamespaceFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringToString("namespace", nil, "State entries as key=value pairs")
	_ = v.BindPFlag("namespace", flags.Lookup("namespace"))
}

func oldestToKeepFlag(v *viper.Viper) string {
	return v.GetString("oldest_to_keep")
}

func addOldestToKeepFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("oldest-to-keep", "", "Delete every checkpoint id lexically less than this one")
	_ = v.BindPFlag("oldest_to_keep", flags.Lookup("oldest-to-keep"))
}

func deleteAllFlag(v *viper.Viper) bool {
	return v.GetBool("delete_all")
}

func addDeleteAllFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("all", false, "Delete the whole topology")
	_ = v.BindPFlag("delete_all", flags.Lookup("all"))
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutdown")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "CHECKPOINT_STORE_GRACEFUL_PERIOD")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}

// addStorageFlags adds the flags every command needs to open the storage
func addStorageFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addRootPathFlag(flags, v)
	addMaxCheckpointsFlag(flags, v)
	addCodecFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
}
