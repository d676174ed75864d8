package kafkaconsumer

import (
	"fmt"
	"time"
)

// GroupId identifies a consumer group. Offsets committed under different group
// ids are independent of each other.
type GroupId string

// ClientId identifies a single client instance. ClientIds are ordered so that
// they can be used as stable sort keys.
type ClientId string

func (c ClientId) Less(other ClientId) bool { return c < other }

// Offset is a position within a single partition. Offsets are assigned by the
// broker and increase monotonically within the partition.
type Offset int64

// PartitionId identifies a partition within a topic.
type PartitionId int32

// Millis is a duration in milliseconds. Used for the consumer poll interval
// and for the file store sync interval. Supports arithmetic directly.
type Millis int64

func (m Millis) Duration() time.Duration { return time.Duration(m) * time.Millisecond }

// OffsetKind tags the active variant of a PartitionOffset.
type OffsetKind uint8

const (
	// OffsetKindInvalid is the zero value: a PartitionOffset that was never
	// constructed. Consumers reject it.
	OffsetKindInvalid OffsetKind = iota
	OffsetKindBeginning
	OffsetKindEnd
	OffsetKindExplicit
	OffsetKindStored
)

// PartitionOffset says where a partition's read cursor should be seeded.
// Construct with OffsetBeginning, OffsetEnd, ExplicitOffset, OffsetStored, or
// OffsetInvalid; the zero value is invalid. PartitionOffset is comparable:
// two values are equal iff they are the same variant with the same payload.
type PartitionOffset struct {
	kind   OffsetKind
	offset int64
}

// OffsetBeginning seeds the cursor at the oldest available record.
func OffsetBeginning() PartitionOffset { return PartitionOffset{kind: OffsetKindBeginning} }

// OffsetEnd seeds the cursor past the newest available record.
func OffsetEnd() PartitionOffset { return PartitionOffset{kind: OffsetKindEnd} }

// ExplicitOffset seeds the cursor at exactly o.
func ExplicitOffset(o Offset) PartitionOffset {
	return PartitionOffset{kind: OffsetKindExplicit, offset: int64(o)}
}

// OffsetStored seeds the cursor at the committed offset for the group.
func OffsetStored() PartitionOffset { return PartitionOffset{kind: OffsetKindStored} }

// OffsetInvalid is the explicit spelling of the zero value.
func OffsetInvalid() PartitionOffset { return PartitionOffset{} }

func (p PartitionOffset) Kind() OffsetKind { return p.kind }

// Explicit returns the seed offset and true if p is the Explicit variant.
func (p PartitionOffset) Explicit() (Offset, bool) {
	return Offset(p.offset), p.kind == OffsetKindExplicit
}

func (p PartitionOffset) String() string {
	switch p.kind {
	case OffsetKindBeginning:
		return "beginning"
	case OffsetKindEnd:
		return "end"
	case OffsetKindExplicit:
		return fmt.Sprintf("%d", p.offset)
	case OffsetKindStored:
		return "stored"
	}
	return "invalid"
}

// TopicPartition names a single partition and where to start reading it. Used
// to describe assignment requests and responses. Comparable: two values are
// equal iff topic, partition, and offset variant all match.
type TopicPartition struct {
	Topic     string
	Partition int32
	Offset    PartitionOffset
}

func (tp TopicPartition) String() string {
	return fmt.Sprintf("%s/%d@%s", tp.Topic, tp.Partition, tp.Offset)
}

// OffsetReset says what to do when there is no usable offset for a partition:
// no committed offset for the group, or the current offset is out of range.
type OffsetReset uint8

const (
	// ResetEarliest moves the cursor to the oldest available record.
	ResetEarliest OffsetReset = iota
	// ResetLatest moves the cursor past the newest available record.
	ResetLatest
)

func (r OffsetReset) String() string {
	if r == ResetLatest {
		return "latest"
	}
	return "earliest"
}

func ParseOffsetReset(s string) (OffsetReset, error) {
	switch s {
	case "earliest":
		return ResetEarliest, nil
	case "latest":
		return ResetLatest, nil
	}
	return 0, Errorf("unknown offset reset %q", s)
}

// OffsetCommitMode says whether committing an offset blocks the caller.
type OffsetCommitMode uint8

const (
	// CommitBlocking waits for the store to acknowledge the commit.
	CommitBlocking OffsetCommitMode = iota
	// CommitAsync returns immediately. Commit outcomes are reported out of
	// band (see the offsets package).
	CommitAsync
)

func (m OffsetCommitMode) String() string {
	if m == CommitAsync {
		return "async"
	}
	return "blocking"
}

func ParseOffsetCommitMode(s string) (OffsetCommitMode, error) {
	switch s {
	case "blocking":
		return CommitBlocking, nil
	case "async":
		return CommitAsync, nil
	}
	return 0, Errorf("unknown offset commit mode %q", s)
}

// SyncKind tags the active variant of an OffsetStoreSync.
type SyncKind uint8

const (
	// SyncKindDisabled flushes only when the store is closed.
	SyncKindDisabled SyncKind = iota
	// SyncKindImmediate flushes on every commit.
	SyncKindImmediate
	// SyncKindInterval flushes in the background at a fixed interval.
	SyncKindInterval
)

// OffsetStoreSync says how often committed offsets reach durable storage when
// offsets are stored in a file. Comparable; the Interval variant carries its
// interval, so SyncInterval(500) != SyncInterval(1000).
type OffsetStoreSync struct {
	kind     SyncKind
	interval Millis
}

func SyncDisabled() OffsetStoreSync  { return OffsetStoreSync{kind: SyncKindDisabled} }
func SyncImmediate() OffsetStoreSync { return OffsetStoreSync{kind: SyncKindImmediate} }

func SyncInterval(every Millis) OffsetStoreSync {
	return OffsetStoreSync{kind: SyncKindInterval, interval: every}
}

func (s OffsetStoreSync) Kind() SyncKind { return s.kind }

// Interval returns the flush interval and true if s is the Interval variant.
func (s OffsetStoreSync) Interval() (Millis, bool) {
	return s.interval, s.kind == SyncKindInterval
}

func (s OffsetStoreSync) String() string {
	switch s.kind {
	case SyncKindImmediate:
		return "immediate"
	case SyncKindInterval:
		return fmt.Sprintf("%dms", s.interval)
	}
	return "disabled"
}

// StoreKind tags the active variant of an OffsetStoreMethod.
type StoreKind uint8

const (
	// StoreKindBroker commits offsets to the group coordinator.
	StoreKindBroker StoreKind = iota
	// StoreKindFile commits offsets to a local file.
	StoreKindFile
)

// OffsetStoreMethod says where committed offsets live. The zero value is the
// broker store. Construct the file variant with StoreFile.
type OffsetStoreMethod struct {
	kind StoreKind
	path string
	sync OffsetStoreSync
}

func StoreBroker() OffsetStoreMethod { return OffsetStoreMethod{kind: StoreKindBroker} }

func StoreFile(path string, sync OffsetStoreSync) OffsetStoreMethod {
	return OffsetStoreMethod{kind: StoreKindFile, path: path, sync: sync}
}

func (m OffsetStoreMethod) Kind() StoreKind { return m.kind }

// File returns the file path and sync policy and true if m is the File
// variant.
func (m OffsetStoreMethod) File() (string, OffsetStoreSync, bool) {
	return m.path, m.sync, m.kind == StoreKindFile
}

func (m OffsetStoreMethod) String() string {
	if m.kind == StoreKindFile {
		return fmt.Sprintf("file:%s:%s", m.path, m.sync)
	}
	return "broker"
}
