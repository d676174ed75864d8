package offsets

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mtarnawa/kafkaconsumer"
)

// File commits offsets to a local JSON file, keyed by topic and partition.
// How often commits reach the file is governed by the OffsetStoreSync variant:
// Disabled writes only on Close, Immediate writes on every commit, Interval
// writes in the background at a fixed interval. Writes replace the file
// atomically (write to a temp file, then rename). Safe for concurrent use.
type File struct {
	path   string
	policy kafkaconsumer.OffsetStoreSync
	log    *zap.Logger
	//
	mu      sync.Mutex
	offsets map[string]map[int32]int64
	dirty   bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// OpenFile loads any offsets already in the file at path and starts the
// background flush loop when the policy is the Interval variant. The logger
// may be nil.
func OpenFile(path string, policy kafkaconsumer.OffsetStoreSync, log *zap.Logger) (*File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f := &File{
		path:    path,
		policy:  policy,
		log:     log,
		offsets: map[string]map[int32]int64{},
	}
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, kafkaconsumer.Errorf("reading offset store %s: %w", path, err)
	}
	if err == nil {
		if err := json.Unmarshal(b, &f.offsets); err != nil {
			return nil, kafkaconsumer.Errorf("parsing offset store %s: %w", path, err)
		}
	}
	if every, ok := policy.Interval(); ok {
		f.done = make(chan struct{})
		f.wg.Add(1)
		go func() {
			f.flushLoop(every)
			f.wg.Done()
		}()
	}
	return f, nil
}

// Fetch returns the committed offset for the partition, -1 if there is none.
// Never makes a network call.
func (f *File) Fetch(topic string, partition int32) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset, ok := f.offsets[topic][partition]; ok {
		return offset, nil
	}
	return -1, nil
}

// Commit records the offset. With the Immediate policy the file is written
// before Commit returns; otherwise the offset is only marked for the next
// flush.
func (f *File) Commit(topic string, partition int32, offset int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	partitions := f.offsets[topic]
	if partitions == nil {
		partitions = map[int32]int64{}
		f.offsets[topic] = partitions
	}
	partitions[partition] = offset
	f.dirty = true
	if f.policy.Kind() == kafkaconsumer.SyncKindImmediate {
		return f.flushLocked()
	}
	return nil
}

func (f *File) flushLoop(every kafkaconsumer.Millis) {
	ticker := time.NewTicker(every.Duration())
	defer ticker.Stop()
	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.mu.Lock()
			err := f.flushLocked()
			f.mu.Unlock()
			if err != nil {
				f.log.Warn("offset store flush failed", zap.Error(err))
			}
		}
	}
}

// flushLocked writes the offsets to disk. Callers must hold f.mu. A flush with
// nothing new committed is a nop.
func (f *File) flushLocked() error {
	if !f.dirty {
		return nil
	}
	b, err := json.Marshal(f.offsets)
	if err != nil {
		return kafkaconsumer.Errorf("marshaling offset store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return kafkaconsumer.Errorf("writing offset store %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return kafkaconsumer.Errorf("replacing offset store %s: %w", f.path, err)
	}
	f.dirty = false
	return nil
}

// Close stops the flush loop and writes any offsets not yet on disk,
// regardless of policy.
func (f *File) Close() error {
	if f.done != nil {
		close(f.done)
		f.wg.Wait()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushLocked()
}
