// Package record defines the generic consumer record and structure-preserving
// transformations over its key and value.
//
// A Record carries three pieces of metadata (topic, partition, offset) and two
// payloads (key, value). Every transformation in this package preserves the
// metadata exactly and touches only the payloads. The Map functions apply pure
// transformations. The Traverse functions apply transformations that can fail,
// and the Pull functions unwrap records whose key or value already holds a
// Result. Both families report failure through an error that names the record
// coordinates, never through a partially constructed record.
package record

// Record is one fetched message. Topic, Partition and Offset say where the
// message came from and are never altered by any transformation; only Key and
// Value change. Records with comparable key and value types are themselves
// comparable, with equality defined over all five fields.
type Record[K, V any] struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       K
	Value     V
}

// Raw is a record as it comes off the wire, before deserialization.
type Raw = Record[[]byte, []byte]

func New[K, V any](topic string, partition int32, offset int64, key K, value V) Record[K, V] {
	return Record[K, V]{
		Topic:     topic,
		Partition: partition,
		Offset:    offset,
		Key:       key,
		Value:     value,
	}
}

// remap carries the metadata of r over to a record with new payloads. All
// transformations bottom out here, which is what makes metadata preservation a
// structural guarantee rather than a convention.
func remap[K, V, K2, V2 any](r Record[K, V], key K2, value V2) Record[K2, V2] {
	return Record[K2, V2]{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       key,
		Value:     value,
	}
}

// MapKey applies f to the key. Total: f cannot fail and no field other than
// the key changes.
func MapKey[K, V, K2 any](r Record[K, V], f func(K) K2) Record[K2, V] {
	return remap(r, f(r.Key), r.Value)
}

// MapValue applies g to the value.
func MapValue[K, V, V2 any](r Record[K, V], g func(V) V2) Record[K, V2] {
	return remap(r, r.Key, g(r.Value))
}

// MapBoth applies f to the key and g to the value. The two transformations are
// independent: MapBoth(r, f, g) == MapValue(MapKey(r, f), g) ==
// MapKey(MapValue(r, g), f).
func MapBoth[K, V, K2, V2 any](r Record[K, V], f func(K) K2, g func(V) V2) Record[K2, V2] {
	return remap(r, f(r.Key), g(r.Value))
}
