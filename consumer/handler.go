package consumer

import (
	"io"
	"time"

	"github.com/mkocikowski/libkafka"
	"github.com/mkocikowski/libkafka/client/fetcher"

	"github.com/mtarnawa/kafkaconsumer"
)

// FetcherSeekerCloser is implemented by libkafka fetcher.PartitionFetcher. You
// don't actually get to use a different fetcher, the reason it is an interface
// is to make mocking out tests for ResponseHandlerFunc easier.
type FetcherSeekerCloser interface {
	Fetcher
	Seeker
	io.Closer
}

type Fetcher interface {
	Fetch() (*fetcher.Response, error)
}

type Seeker interface {
	Seek(time.Time) error
	Offset() int64
	SetOffset(int64)
}

// ResponseHandlerFunc decides what happens after every fetch exchange: where
// the fetcher's offset moves, and whether the partition connection survives.
type ResponseHandlerFunc func(FetcherSeekerCloser, *Exchange)

// resetTarget maps the reset policy onto a seek target.
func resetTarget(reset kafkaconsumer.OffsetReset) time.Time {
	if reset == kafkaconsumer.ResetLatest {
		return fetcher.MessageNewest
	}
	return fetcher.MessageOldest
}

// HandleFetchResponse returns the default exchange handling logic for the
// given offset reset policy. Read through the code.
func HandleFetchResponse(reset kafkaconsumer.OffsetReset) ResponseHandlerFunc {
	return func(f FetcherSeekerCloser, e *Exchange) {
		if e.RequestError != nil {
			// connection has been closed in libkafka
			return
		}
		if e.ErrorCode == libkafka.ERR_OFFSET_OUT_OF_RANGE {
			// the cursor points outside the partition (on either
			// end); apply the reset policy
			if err := f.Seek(resetTarget(reset)); err != nil {
				// on any "more complicated" error close the
				// connection for the partition client. this
				// forces starting from scratch for this
				// partition: looking up the leader and
				// establishing the connection. the current
				// offset stays the same
				f.Close()
			}
			// if there was no error the offset now points at the
			// reset target. this exchange is still marked as
			// failed, but the next fetch from this partition
			// should be successful
			return
		}
		if e.ErrorCode != libkafka.ERR_NONE {
			f.Close()
			return
		}
		nextOffset := e.InitialOffset
		for _, batch := range e.Batches {
			if batch.Error != nil {
				continue
			}
			nextOffset = batch.LastOffset() + 1
			// if the last batch fails it will be retried next time
			// (offset will not be advanced past it). if a batch
			// "in the middle" fails it will be skipped (offset
			// will be advanced past it).
		}
		// this is not "committing" the offset. this is just moving the
		// fetcher's offset to the end of the last batch, so that the
		// next call to Fetch starts from the right place.
		f.SetOffset(nextOffset)
		e.FinalOffset = nextOffset - 1
	}
}
