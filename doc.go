/*
Package kafkaconsumer implements a typed kafka consumer binding on top of
libkafka.

Kafkaconsumer is the consumer half of a client: libkafka speaks the wire
protocol and owns the connections, this module owns the data model. The root
package defines the identifiers and configuration values that parameterize
consumption (group id, client id, offset seeds, commit mode, offset storage).
The record package defines the generic consumer record and the transformations
over its key and value. The consumer package turns fetch responses into typed
records, and the offsets package persists consumption progress. See
cmd/consumer for example implementation.
*/
package kafkaconsumer
