package consumer

import (
	"sync"
	"time"

	"github.com/mkocikowski/libkafka"
	"github.com/mkocikowski/libkafka/client"
	"github.com/mkocikowski/libkafka/client/fetcher"
	"go.uber.org/zap"

	"github.com/mtarnawa/kafkaconsumer"
	"github.com/mtarnawa/kafkaconsumer/offsets"
)

// Static consumes from a fixed set of topic partitions. Where each partition's
// cursor is seeded is described by the PartitionOffset variant of its
// assignment. Make sure to set public field values before calling Start. Do
// not change them after calling Start. Safe for concurrent use.
type Static struct {
	// Kafka bootstrap either host:port or SRV
	Bootstrap string
	// ClientId is sent to the broker with every request. May be empty.
	ClientId kafkaconsumer.ClientId
	// Assignments lists the partitions to consume and where to seed each
	// cursor. An assignment with an invalid offset variant fails Start.
	Assignments []kafkaconsumer.TopicPartition
	// Spin up this many workers. Each worker is synchronous and fetches
	// from one partition at a time, round robin. It makes no sense to have
	// more workers than partitions. Must be >0.
	NumWorkers int
	// Reset says where to move a cursor that has no usable offset: seeding
	// a Stored assignment with nothing committed, or a fetch that came
	// back OFFSET_OUT_OF_RANGE.
	Reset kafkaconsumer.OffsetReset
	// HandleResponse is called after every exchange. Nil gets
	// HandleFetchResponse(Reset).
	HandleResponse ResponseHandlerFunc
	// Offsets is required when any assignment is Stored, and receives a
	// commit after every successful exchange. Nil disables committing.
	// Wrap with offsets.ForMode to pick the commit mode.
	Offsets offsets.Committer
	// PollInterval is how long a worker waits after an exchange that
	// returned no batches before fetching from that partition again. Zero
	// polls hot.
	PollInterval kafkaconsumer.Millis
	// Fetch request tuning, passed through to the partition fetchers.
	MinBytes      int32
	MaxBytes      int32
	MaxWaitTimeMs int32
	// Logger may be nil.
	Logger *zap.Logger
	//
	fetchers []FetcherSeekerCloser
	next     chan int
	out      chan *Exchange
	done     chan struct{}
	wg       sync.WaitGroup
}

func (c *Static) newFetcher(tp kafkaconsumer.TopicPartition) *fetcher.PartitionFetcher {
	return &fetcher.PartitionFetcher{
		PartitionClient: client.PartitionClient{
			Bootstrap: c.Bootstrap,
			ClientId:  string(c.ClientId),
			Topic:     tp.Topic,
			Partition: tp.Partition,
		},
		MinBytes:      c.MinBytes,
		MaxBytes:      c.MaxBytes,
		MaxWaitTimeMs: c.MaxWaitTimeMs,
	}
}

// seed positions the fetcher's cursor according to the assignment's offset
// variant. Beginning and End seek against the broker; Stored consults the
// offset store, falling back to the reset policy when nothing has been
// committed yet.
func (c *Static) seed(f FetcherSeekerCloser, tp kafkaconsumer.TopicPartition) error {
	switch tp.Offset.Kind() {
	case kafkaconsumer.OffsetKindExplicit:
		o, _ := tp.Offset.Explicit()
		f.SetOffset(int64(o))
	case kafkaconsumer.OffsetKindBeginning:
		if err := f.Seek(fetcher.MessageOldest); err != nil {
			return kafkaconsumer.Errorf("seeding %s: %w", tp, err)
		}
	case kafkaconsumer.OffsetKindEnd:
		if err := f.Seek(fetcher.MessageNewest); err != nil {
			return kafkaconsumer.Errorf("seeding %s: %w", tp, err)
		}
	case kafkaconsumer.OffsetKindStored:
		if c.Offsets == nil {
			return kafkaconsumer.Errorf("seeding %s: stored offset requested but no offset store", tp)
		}
		offset, err := c.Offsets.Fetch(tp.Topic, tp.Partition)
		if err != nil {
			return kafkaconsumer.Errorf("seeding %s: %w", tp, err)
		}
		if offset < 0 {
			// nothing committed for this partition yet
			if err := f.Seek(resetTarget(c.Reset)); err != nil {
				return kafkaconsumer.Errorf("seeding %s: %w", tp, err)
			}
			return nil
		}
		f.SetOffset(offset)
	default:
		return kafkaconsumer.Errorf("seeding %s: invalid partition offset", tp)
	}
	return nil
}

// commit records consumption progress after a successful exchange that moved
// the cursor. The committed value is the next offset to read, one past the
// exchange's final offset. Commit errors are logged, they do not stop the
// consumer.
func (c *Static) commit(e *Exchange) {
	if c.Offsets == nil {
		return
	}
	if e.RequestError != nil || e.ErrorCode != libkafka.ERR_NONE {
		return
	}
	if e.FinalOffset < e.InitialOffset {
		return // nothing consumed
	}
	if err := c.Offsets.Commit(e.Topic, e.Partition, e.FinalOffset+1); err != nil {
		c.Logger.Warn("offset commit failed",
			zap.String("topic", e.Topic),
			zap.Int32("partition", e.Partition),
			zap.Int64("offset", e.FinalOffset+1),
			zap.Error(err))
	}
}

func (c *Static) consume() *Exchange {
	i := <-c.next
	defer func() { c.next <- i }()
	f := c.fetchers[i]
	e := &Exchange{InitialOffset: f.Offset()}
	e.parseResponse(f.Fetch())
	c.HandleResponse(f, e)
	c.commit(e)
	return e
}

func (c *Static) run() {
	for {
		select {
		case <-c.done:
			return
		default:
		}
		e := c.consume()
		c.out <- e
		if len(e.Batches) > 0 || c.PollInterval <= 0 {
			continue
		}
		select {
		case <-c.done:
			return
		case <-time.After(c.PollInterval.Duration()):
		}
	}
}

// Start seeds a fetcher for every assignment and spins up the workers. Read
// exchanges from the returned channel; the channel is unbuffered so fetching
// stops while nobody reads it. On any seeding error nothing is started.
func (c *Static) Start() (<-chan *Exchange, error) {
	if c.NumWorkers < 1 {
		return nil, kafkaconsumer.Errorf("NumWorkers must be >0")
	}
	if len(c.Assignments) == 0 {
		return nil, kafkaconsumer.Errorf("no partitions assigned")
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.HandleResponse == nil {
		c.HandleResponse = HandleFetchResponse(c.Reset)
	}
	c.fetchers = make([]FetcherSeekerCloser, 0, len(c.Assignments))
	c.next = make(chan int, len(c.Assignments))
	for i, tp := range c.Assignments {
		f := c.newFetcher(tp)
		if err := c.seed(f, tp); err != nil {
			return nil, err
		}
		c.Logger.Info("partition seeded",
			zap.String("topic", tp.Topic),
			zap.Int32("partition", tp.Partition),
			zap.Int64("offset", f.Offset()))
		c.fetchers = append(c.fetchers, f)
		c.next <- i
	}
	c.done = make(chan struct{})
	c.out = make(chan *Exchange)
	for i := 0; i < c.NumWorkers; i++ {
		c.wg.Add(1)
		go func() {
			c.run()
			c.wg.Done()
		}()
	}
	go func() {
		c.wg.Wait()
		close(c.out)
	}()
	return c.out, nil
}

func (c *Static) Stop() {
	close(c.done)
}

func (c *Static) Wait() {
	c.wg.Wait()
}
