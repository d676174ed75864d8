package record

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func sample() Record[string, string] {
	return New("orders", 2, 1001, "k1", "v1")
}

func TestUnitMapIdentity(t *testing.T) {
	c := qt.New(t)
	r := sample()
	id := func(s string) string { return s }
	c.Assert(MapKey(r, id), qt.Equals, r)
	c.Assert(MapValue(r, id), qt.Equals, r)
	c.Assert(MapBoth(r, id, id), qt.Equals, r)
}

func TestUnitMapComposition(t *testing.T) {
	c := qt.New(t)
	r := sample()
	f1 := strings.ToUpper
	f2 := func(s string) string { return s + "!" }
	composed := MapKey(r, func(s string) string { return f2(f1(s)) })
	stepwise := MapKey(MapKey(r, f1), f2)
	c.Assert(stepwise, qt.Equals, composed)
}

func TestUnitMapOrderIndependence(t *testing.T) {
	c := qt.New(t)
	r := sample()
	f := strings.ToUpper
	g := func(s string) string { return s + s }
	both := MapBoth(r, f, g)
	c.Assert(MapValue(MapKey(r, f), g), qt.Equals, both)
	c.Assert(MapKey(MapValue(r, g), f), qt.Equals, both)
}

func TestUnitMapPreservesMetadata(t *testing.T) {
	c := qt.New(t)
	r := sample()
	// change both payload types; metadata must come through bit for bit
	mapped := MapBoth(r,
		func(k string) int { return len(k) },
		func(v string) []byte { return []byte(v) },
	)
	c.Assert(mapped.Topic, qt.Equals, "orders")
	c.Assert(mapped.Partition, qt.Equals, int32(2))
	c.Assert(mapped.Offset, qt.Equals, int64(1001))
	c.Assert(mapped.Key, qt.Equals, 2)
	c.Assert(string(mapped.Value), qt.Equals, "v1")
}

func TestUnitRecordEquality(t *testing.T) {
	c := qt.New(t)
	a := sample()
	b := sample()
	c.Assert(a == b, qt.IsTrue)
	b.Offset++
	c.Assert(a == b, qt.IsFalse)
}
