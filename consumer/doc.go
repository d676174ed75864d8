// Package consumer implements the poll side of the client. A consumer (in
// this nomenclature) is different from a fetcher in that it includes logic for
// manipulating fetch offsets: seeding cursors from TopicPartition assignments,
// advancing them after every exchange, applying the reset policy, and
// committing progress through an offsets store.
//
// Currently only a Static consumer is implemented (consumes from a static list
// of topic partitions; group membership is the native client's business, not
// this module's). Call the Start method of a Static instance and read from the
// returned output channel.
//
// Each request-response pair and its outcome are captured in an Exchange
// struct. An exchange, if successful, will have one or more batches, and each
// batch will have one or more records; Exchange.Records turns them into raw
// consumer records ready for the transformations in the record package.
//
// The logic for handling errors when multiple batches are fetched can be
// complex. That logic is implemented by the ResponseHandlerFunc returned from
// HandleFetchResponse. Read up on these if you want to implement your own
// error handling logic.
package consumer
