package consumer

import (
	"time"

	"github.com/mkocikowski/libkafka"
	"github.com/mkocikowski/libkafka/batch"
	"github.com/mkocikowski/libkafka/client/fetcher"
	"github.com/mkocikowski/libkafka/compression"
	librecord "github.com/mkocikowski/libkafka/record"

	"github.com/mtarnawa/kafkaconsumer"
	"github.com/mtarnawa/kafkaconsumer/record"
)

// Batch is the unit at which data is fetched from kafka. A successful fetch
// request will return one or more batches. Each batch, if unmarshaled
// successfully, will have one or more records in it.
type Batch struct {
	libkafka.Batch
	Topic           string
	Partition       int32
	Error           error
	CompressedBytes int32
}

func parseResponseBatch(b []byte) *Batch {
	responseBatch, err := batch.Unmarshal(b)
	if err != nil {
		return &Batch{Error: kafkaconsumer.Errorf("error unmarshaling batch: %w", err)}
	}
	return &Batch{
		Batch:           *responseBatch,
		CompressedBytes: responseBatch.BatchLengthBytes,
	}
}

var ErrCodecNotFound = kafkaconsumer.Errorf("codec not found")

// Decompress the batch. Decompressing a batch that is not compressed is a nop.
// Mutates the batch. If Batch.Error is not nil Decompress is a nop. Sets
// Batch.Error on error. Not safe for concurrent use.
func (b *Batch) Decompress(decompressors map[int16]batch.Decompressor) {
	if b.Error != nil {
		return
	}
	d := decompressors[b.Batch.CompressionType()]
	if d == nil {
		b.Error = ErrCodecNotFound
		return
	}
	if err := b.Batch.Decompress(d); err != nil {
		b.Error = err
	}
}

var ErrBatchCompressed = kafkaconsumer.Errorf("batch is compressed")

// Records retrieves the individual records from the batch as raw consumer
// records, each carrying the topic, partition, and its absolute partition
// offset (batch base offset plus record offset delta). Batch must be
// decompressed.
func (b *Batch) Records() ([]record.Raw, error) {
	if b.Error != nil {
		return nil, b.Error
	}
	if b.Batch.CompressionType() != compression.None {
		return nil, ErrBatchCompressed
	}
	recordsBytes := b.Batch.Records()
	records := make([]record.Raw, len(recordsBytes))
	for i, m := range recordsBytes {
		r, err := librecord.Unmarshal(m)
		if err != nil {
			return nil, kafkaconsumer.Errorf("error unmarshaling record: %w", err)
		}
		records[i] = record.New(
			b.Topic,
			b.Partition,
			b.BaseOffset+int64(r.OffsetDelta),
			r.Key,
			r.Value,
		)
	}
	return records, nil
}

func (b *Batch) MaxTimestamp() time.Time {
	t := time.Unix(0, b.Batch.MaxTimestamp*int64(time.Millisecond))
	return t
}

var ErrNilResponse = kafkaconsumer.Errorf("nil fetch response")

// Exchange captures a single fetch request-response pair and its outcome. An
// exchange, if successful, will have one or more batches, and each batch will
// have one or more records.
type Exchange struct {
	fetcher.Response
	RequestError  error
	Batches       []*Batch
	InitialOffset int64
	FinalOffset   int64
}

func (e *Exchange) parseResponse(r *fetcher.Response, err error) {
	if err != nil {
		e.RequestError = err
		return
	}
	if r == nil {
		e.RequestError = ErrNilResponse
		return
	}
	e.Response = *r
	for _, b := range r.RecordSet.Batches() {
		responseBatch := parseResponseBatch(b)
		responseBatch.Topic = r.Topic
		responseBatch.Partition = r.Partition
		e.Batches = append(e.Batches, responseBatch)
	}
}

// Records decompresses every batch in the exchange and collects their records
// in partition order. Any batch that failed to unmarshal or decompress fails
// the whole call.
func (e *Exchange) Records(decompressors map[int16]batch.Decompressor) ([]record.Raw, error) {
	var records []record.Raw
	for _, b := range e.Batches {
		b.Decompress(decompressors)
		rr, err := b.Records()
		if err != nil {
			return nil, err
		}
		records = append(records, rr...)
	}
	return records, nil
}
