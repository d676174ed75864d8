package offsets

import (
	"os"
	"testing"

	"github.com/mtarnawa/kafkaconsumer"
)

func TestUnitFileStoreFetchEmpty(t *testing.T) {
	path := t.TempDir() + "/offsets.json"
	f, err := OpenFile(path, kafkaconsumer.SyncDisabled(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	offset, err := f.Fetch("orders", 0)
	if err != nil {
		t.Fatal(err)
	}
	if offset != -1 {
		t.Fatal(offset)
	}
}

func TestUnitFileStoreImmediate(t *testing.T) {
	path := t.TempDir() + "/offsets.json"
	f, err := OpenFile(path, kafkaconsumer.SyncImmediate(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Commit("orders", 2, 1001); err != nil {
		t.Fatal(err)
	}
	// immediate policy: the commit is on disk before Close
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	// a new store over the same file sees the committed offset
	f, err = OpenFile(path, kafkaconsumer.SyncImmediate(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	offset, err := f.Fetch("orders", 2)
	if err != nil {
		t.Fatal(err)
	}
	if offset != 1001 {
		t.Fatal(offset)
	}
	// other partitions of the same topic stay uncommitted
	if offset, _ := f.Fetch("orders", 3); offset != -1 {
		t.Fatal(offset)
	}
}

func TestUnitFileStoreDisabledFlushesOnClose(t *testing.T) {
	path := t.TempDir() + "/offsets.json"
	f, err := OpenFile(path, kafkaconsumer.SyncDisabled(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Commit("orders", 0, 42); err != nil {
		t.Fatal(err)
	}
	// disabled policy: nothing on disk yet
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	f, err = OpenFile(path, kafkaconsumer.SyncDisabled(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if offset, _ := f.Fetch("orders", 0); offset != 42 {
		t.Fatal(offset)
	}
}

func TestUnitFileStoreIntervalCloseFlushes(t *testing.T) {
	path := t.TempDir() + "/offsets.json"
	// long interval so the test exercises the Close path, not the ticker
	f, err := OpenFile(path, kafkaconsumer.SyncInterval(60_000), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Commit("orders", 1, 7); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	f, err = OpenFile(path, kafkaconsumer.SyncDisabled(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if offset, _ := f.Fetch("orders", 1); offset != 7 {
		t.Fatal(offset)
	}
}

func TestUnitFileStoreCorrupt(t *testing.T) {
	path := t.TempDir() + "/offsets.json"
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path, kafkaconsumer.SyncDisabled(), nil); err == nil {
		t.Fatal("expected parse error")
	}
}
