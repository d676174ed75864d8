// Package offsets persists consumption progress. A Committer stores and
// retrieves committed offsets for a consumer group; where they live is
// selected by the OffsetStoreMethod variant: the group coordinator (Broker) or
// a local file (File). Wrap either in an Async to get the non-blocking commit
// mode.
package offsets

import (
	"sync"
	"time"

	"github.com/mkocikowski/libkafka/client"
	"go.uber.org/zap"

	"github.com/mtarnawa/kafkaconsumer"
)

// Committer stores and retrieves committed offsets. Fetch returns -1 and no
// error when nothing has been committed for the partition.
type Committer interface {
	Fetch(topic string, partition int32) (int64, error)
	Commit(topic string, partition int32, offset int64) error
	Close() error
}

// New returns the Committer for the configured store method. The logger may be
// nil. Bootstrap and group id are only used by the broker store; the file
// store keys offsets by topic and partition within its own file.
func New(
	method kafkaconsumer.OffsetStoreMethod,
	bootstrap string,
	group kafkaconsumer.GroupId,
	log *zap.Logger,
) (Committer, error) {
	switch method.Kind() {
	case kafkaconsumer.StoreKindBroker:
		return &Broker{Bootstrap: bootstrap, GroupId: group}, nil
	case kafkaconsumer.StoreKindFile:
		path, policy, _ := method.File()
		return OpenFile(path, policy, log)
	}
	return nil, kafkaconsumer.Errorf("unknown offset store method %q", method)
}

// Broker commits offsets to the group coordinator. Make sure to set public
// field values before the first call. Safe for concurrent use.
type Broker struct {
	// Kafka bootstrap either host:port or SRV
	Bootstrap string
	GroupId   kafkaconsumer.GroupId
	// Retention is passed to the broker with every commit. Zero means the
	// broker default.
	Retention time.Duration
	//
	client *client.GroupClient
	sync.Mutex
}

func (c *Broker) init() {
	c.Lock()
	defer c.Unlock()
	if c.client != nil {
		return
	}
	c.client = &client.GroupClient{
		Bootstrap: c.Bootstrap,
		GroupId:   string(c.GroupId),
	}
}

// Fetch makes a single FetchOffset api call. If there is no active connection
// to the group coordinator, the client will first look up the coordinator and
// connect to it (or return an error if unable to do so). On any error the
// client drops the connection and re-opens it on the next call; there is no
// retry logic here. If no offset has been committed for the partition the
// returned offset is -1 and there is no error.
func (c *Broker) Fetch(topic string, partition int32) (int64, error) {
	c.init() // idempotent
	offset, err := c.client.FetchOffset(topic, partition)
	if err != nil {
		err = kafkaconsumer.Errorf("fetching offset for %s/%d: %w", topic, partition, err)
	}
	return offset, err
}

// Commit makes a single CommitOffset api call. See Fetch documentation for
// info on error handling.
func (c *Broker) Commit(topic string, partition int32, offset int64) error {
	c.init() // idempotent
	retentionMs := int64(-1)
	if c.Retention > 0 {
		retentionMs = c.Retention.Milliseconds()
	}
	err := c.client.CommitOffset(topic, partition, offset, retentionMs)
	if err != nil {
		err = kafkaconsumer.Errorf("committing offset for %s/%d: %w", topic, partition, err)
	}
	return err
}

// Close is a nop: the group client manages its own connection, dropping it on
// any call error. Implements Committer.
func (c *Broker) Close() error {
	return nil
}
