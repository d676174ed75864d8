package consumer

import (
	"testing"
	"time"

	"github.com/mkocikowski/libkafka"
	"github.com/mkocikowski/libkafka/client/fetcher"

	"github.com/mtarnawa/kafkaconsumer"
)

type mockFetcher struct {
	closed bool
	offset int64
	sought time.Time
}

func (*mockFetcher) Fetch() (*fetcher.Response, error) { return nil, nil }
func (f *mockFetcher) Seek(t time.Time) error          { f.sought = t; return nil }
func (f *mockFetcher) Offset() int64                   { return f.offset }
func (f *mockFetcher) SetOffset(i int64)               { f.offset = i }
func (f *mockFetcher) Close() error                    { f.closed = true; return nil }

func TestUnitHandleFetchResponse(t *testing.T) {
	e := &Exchange{
		Response:      fetcher.Response{},
		RequestError:  nil,
		InitialOffset: 1,
		Batches: []*Batch{
			{Batch: libkafka.Batch{BaseOffset: 1, LastOffsetDelta: 0}}, // 1 record
			{Batch: libkafka.Batch{BaseOffset: 2, LastOffsetDelta: 0}}, // 1 record
		},
	}
	f := &mockFetcher{}
	handle := HandleFetchResponse(kafkaconsumer.ResetEarliest)
	handle(f, e)
	if e.FinalOffset != 2 {
		t.Fatal(e.FinalOffset)
	}
	if f.offset != 3 {
		t.Fatal(f.offset)
	}
	if f.closed {
		t.Fatal("expected open")
	}
	// now simulate an error that should result in connection getting closed
	e.ErrorCode = libkafka.ERR_LEADER_NOT_AVAILABLE
	handle(f, e)
	if !f.closed {
		t.Fatal("expected closed")
	}
}

func TestUnitHandleFetchResponseFailedBatchInMiddle(t *testing.T) {
	e := &Exchange{
		InitialOffset: 10,
		Batches: []*Batch{
			{Batch: libkafka.Batch{BaseOffset: 10, LastOffsetDelta: 1}},
			{Error: ErrCodecNotFound},
			{Batch: libkafka.Batch{BaseOffset: 14, LastOffsetDelta: 1}},
		},
	}
	f := &mockFetcher{}
	HandleFetchResponse(kafkaconsumer.ResetEarliest)(f, e)
	// failed middle batch is skipped, offset advances past the last good one
	if f.offset != 16 {
		t.Fatal(f.offset)
	}
	if e.FinalOffset != 15 {
		t.Fatal(e.FinalOffset)
	}
}

func TestUnitHandleFetchResponseOutOfRange(t *testing.T) {
	f := &mockFetcher{}
	e := &Exchange{Response: fetcher.Response{ErrorCode: libkafka.ERR_OFFSET_OUT_OF_RANGE}}
	HandleFetchResponse(kafkaconsumer.ResetEarliest)(f, e)
	if !f.sought.Equal(fetcher.MessageOldest) {
		t.Fatal(f.sought)
	}
	f = &mockFetcher{}
	HandleFetchResponse(kafkaconsumer.ResetLatest)(f, e)
	if !f.sought.Equal(fetcher.MessageNewest) {
		t.Fatal(f.sought)
	}
}

func TestUnitHandleFetchResponseNoBatches(t *testing.T) {
	f := &mockFetcher{offset: 5}
	e := &Exchange{InitialOffset: 5}
	HandleFetchResponse(kafkaconsumer.ResetEarliest)(f, e)
	// cursor stays put and FinalOffset marks nothing consumed
	if f.offset != 5 {
		t.Fatal(f.offset)
	}
	if e.FinalOffset != 4 {
		t.Fatal(e.FinalOffset)
	}
}
