package offsets

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mtarnawa/kafkaconsumer"
)

func TestIntegrationBrokerOffsets(t *testing.T) {
	m := &Broker{
		Bootstrap: "localhost:9092",
		GroupId:   kafkaconsumer.GroupId(fmt.Sprintf("test-%x", rand.Uint32())),
	}
	topic := fmt.Sprintf("test-%x", rand.Uint32())
	// topic does not exist so nothing is committed
	offset, err := m.Fetch(topic, 0)
	if err != nil {
		t.Fatal(err)
	}
	if offset != -1 {
		t.Fatal(offset)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUnitBrokerClose(t *testing.T) {
	m := &Broker{Bootstrap: "localhost:9092", GroupId: "g1"}
	// safe before any call
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	m.init()
	// and after the client exists
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUnitNewStore(t *testing.T) {
	c, err := New(kafkaconsumer.StoreBroker(), "localhost:9092", "g1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*Broker); !ok {
		t.Fatalf("%T", c)
	}
	path := t.TempDir() + "/offsets.json"
	c, err = New(kafkaconsumer.StoreFile(path, kafkaconsumer.SyncDisabled()), "", "g1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*File); !ok {
		t.Fatalf("%T", c)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
