package kafkaconsumer

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestUnitErrorf(t *testing.T) {
	e := Errorf("seeding partition %d: %w", 2, errors.New("no committed offset"))
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if s := string(b); s != `"seeding partition 2: no committed offset"` {
		t.Fatal(s)
	}
}

func TestUnitErrorfEscapes(t *testing.T) {
	e := Errorf("unknown store method %q", "zookeeper")
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if s := string(b); s != `"unknown store method \"zookeeper\""` {
		t.Fatal(s)
	}
}

func TestUnitErrorIs(t *testing.T) {
	bar := errors.New("bar")
	foo := Errorf("foo: %w", bar)
	if !errors.Is(foo, bar) {
		t.Fatal("is not")
	}
}
