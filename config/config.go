// Package config builds consumer configuration from defaults, environment
// variables, and an optional YAML file, in that order of increasing
// precedence. String spellings from the file or environment are parsed into
// the typed identifiers and variants of the root package, so misspelled
// policies fail at load time, not at first use.
package config

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/mtarnawa/kafkaconsumer"
)

// Config parameterizes one consumer instance.
type Config struct {
	Bootstrap    string
	Topic        string
	Partitions   []kafkaconsumer.PartitionId
	GroupId      kafkaconsumer.GroupId
	ClientId     kafkaconsumer.ClientId
	NumWorkers   int
	PollInterval kafkaconsumer.Millis
	MinBytes     int32
	MaxBytes     int32
	Reset        kafkaconsumer.OffsetReset
	CommitMode   kafkaconsumer.OffsetCommitMode
	Store        kafkaconsumer.OffsetStoreMethod
}

// Assignments expands the configured partitions into topic partitions seeded
// from the offset store.
func (c *Config) Assignments() []kafkaconsumer.TopicPartition {
	tps := make([]kafkaconsumer.TopicPartition, len(c.Partitions))
	for i, p := range c.Partitions {
		tps[i] = kafkaconsumer.TopicPartition{
			Topic:     c.Topic,
			Partition: int32(p),
			Offset:    kafkaconsumer.OffsetStored(),
		}
	}
	return tps
}

// Load reads configuration. Path may be empty, in which case only defaults and
// KAFKACONSUMER_* environment variables apply (e.g. KAFKACONSUMER_GROUP_ID
// overrides group_id).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("bootstrap", "localhost:9092")
	v.SetDefault("topic", "")
	v.SetDefault("partitions", []int{0})
	v.SetDefault("group_id", "")
	v.SetDefault("client_id", "consumer-"+uuid.NewString()[:8])
	v.SetDefault("workers", 1)
	v.SetDefault("poll_interval_ms", 500)
	v.SetDefault("min_bytes", 1)
	v.SetDefault("max_bytes", 1<<20)
	v.SetDefault("offset_reset", "latest")
	v.SetDefault("commit_mode", "blocking")
	v.SetDefault("store.method", "broker")
	v.SetDefault("store.path", "offsets.json")
	v.SetDefault("store.sync", "immediate")

	v.SetEnvPrefix("KAFKACONSUMER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, kafkaconsumer.Errorf("reading config %q: %w", path, err)
		}
	}

	reset, err := kafkaconsumer.ParseOffsetReset(v.GetString("offset_reset"))
	if err != nil {
		return nil, err
	}
	mode, err := kafkaconsumer.ParseOffsetCommitMode(v.GetString("commit_mode"))
	if err != nil {
		return nil, err
	}
	store, err := parseStore(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Bootstrap:    v.GetString("bootstrap"),
		Topic:        v.GetString("topic"),
		GroupId:      kafkaconsumer.GroupId(v.GetString("group_id")),
		ClientId:     kafkaconsumer.ClientId(v.GetString("client_id")),
		NumWorkers:   v.GetInt("workers"),
		PollInterval: kafkaconsumer.Millis(v.GetInt64("poll_interval_ms")),
		MinBytes:     v.GetInt32("min_bytes"),
		MaxBytes:     v.GetInt32("max_bytes"),
		Reset:        reset,
		CommitMode:   mode,
		Store:        store,
	}
	for _, p := range v.GetIntSlice("partitions") {
		cfg.Partitions = append(cfg.Partitions, kafkaconsumer.PartitionId(p))
	}
	return cfg, cfg.validate()
}

// parseStore interprets the store.* keys. Sync accepts "disabled",
// "immediate", or a flush interval in milliseconds.
func parseStore(v *viper.Viper) (kafkaconsumer.OffsetStoreMethod, error) {
	switch method := v.GetString("store.method"); method {
	case "broker":
		return kafkaconsumer.StoreBroker(), nil
	case "file":
		sync, err := parseSync(v.GetString("store.sync"))
		if err != nil {
			return kafkaconsumer.OffsetStoreMethod{}, err
		}
		return kafkaconsumer.StoreFile(v.GetString("store.path"), sync), nil
	default:
		return kafkaconsumer.OffsetStoreMethod{}, kafkaconsumer.Errorf("unknown store method %q", method)
	}
}

func parseSync(s string) (kafkaconsumer.OffsetStoreSync, error) {
	switch s {
	case "disabled":
		return kafkaconsumer.SyncDisabled(), nil
	case "immediate":
		return kafkaconsumer.SyncImmediate(), nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return kafkaconsumer.OffsetStoreSync{}, kafkaconsumer.Errorf("unknown store sync %q", s)
	}
	return kafkaconsumer.SyncInterval(kafkaconsumer.Millis(ms)), nil
}

func (c *Config) validate() error {
	if c.Topic == "" {
		return kafkaconsumer.Errorf("topic is required")
	}
	if c.GroupId == "" {
		return kafkaconsumer.Errorf("group_id is required")
	}
	if c.NumWorkers < 1 {
		return kafkaconsumer.Errorf("workers must be >0")
	}
	if len(c.Partitions) == 0 {
		return kafkaconsumer.Errorf("at least one partition is required")
	}
	for _, p := range c.Partitions {
		if p < 0 {
			return kafkaconsumer.Errorf("negative partition %d", p)
		}
	}
	return nil
}
