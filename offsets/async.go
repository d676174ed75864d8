package offsets

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mtarnawa/kafkaconsumer"
)

// CommitResult reports the outcome of one asynchronous commit.
type CommitResult struct {
	Topic     string
	Partition int32
	Offset    int64
	Error     error
}

type commitRequest struct {
	topic     string
	partition int32
	offset    int64
}

// Async wraps a Committer so that Commit returns immediately: requests are
// queued and performed by a single background worker, in order. Outcomes are
// delivered on the Results channel; a result that cannot be delivered (channel
// full, nobody reading) is logged and dropped, it never blocks committing.
// Fetch stays synchronous, it is only called when seeding cursors.
type Async struct {
	store   Committer
	log     *zap.Logger
	reqs    chan commitRequest
	results chan CommitResult
	wg      sync.WaitGroup
}

// NewAsync starts the commit worker. Buffer is the capacity of both the
// request queue and the results channel; <=0 gets a small default. The logger
// may be nil.
func NewAsync(store Committer, buffer int, log *zap.Logger) *Async {
	if buffer <= 0 {
		buffer = 16
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &Async{
		store:   store,
		log:     log,
		reqs:    make(chan commitRequest, buffer),
		results: make(chan CommitResult, buffer),
	}
	a.wg.Add(1)
	go func() {
		a.run()
		a.wg.Done()
	}()
	return a
}

func (a *Async) run() {
	for req := range a.reqs {
		res := CommitResult{
			Topic:     req.topic,
			Partition: req.partition,
			Offset:    req.offset,
			Error:     a.store.Commit(req.topic, req.partition, req.offset),
		}
		select {
		case a.results <- res:
		default:
			if res.Error != nil {
				a.log.Warn("dropped failed commit result",
					zap.String("topic", res.Topic),
					zap.Int32("partition", res.Partition),
					zap.Int64("offset", res.Offset),
					zap.Error(res.Error))
			}
		}
	}
	close(a.results)
}

func (a *Async) Fetch(topic string, partition int32) (int64, error) {
	return a.store.Fetch(topic, partition)
}

// Commit queues the commit and returns. The only error is committing after
// Close.
func (a *Async) Commit(topic string, partition int32, offset int64) (err error) {
	defer func() {
		if recover() != nil {
			err = kafkaconsumer.Errorf("commit after close for %s/%d", topic, partition)
		}
	}()
	a.reqs <- commitRequest{topic: topic, partition: partition, offset: offset}
	return nil
}

// Results delivers commit outcomes. Closed after Close once the queue drains.
func (a *Async) Results() <-chan CommitResult {
	return a.results
}

// Close drains queued commits, then closes the wrapped store.
func (a *Async) Close() error {
	close(a.reqs)
	a.wg.Wait()
	return a.store.Close()
}

// ForMode wraps store for the configured commit mode: Blocking returns the
// store unchanged, Async wraps it in an Async committer with default
// buffering.
func ForMode(mode kafkaconsumer.OffsetCommitMode, store Committer, log *zap.Logger) Committer {
	if mode == kafkaconsumer.CommitAsync {
		return NewAsync(store, 0, log)
	}
	return store
}
