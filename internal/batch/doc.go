// Package batch orchestrates a single bounded-concurrency probe run.
//
// This package is internal to langprobe and contains the concurrency
// machinery of the tool: admission control over in-flight probes, the
// thread-safe collector that partitions results, and the runner that
// dispatches workers and waits for all of them to finish.
//
// The main components are:
//
//   - [Runner]: Dispatches one worker per item, capped at a concurrency ceiling
//   - [Collector]: Partitions results into supported/unsupported lines
//   - [Summary]: Counts computed once every worker has joined
//
// The runner guarantees a strict per-item order - acquire a slot, probe,
// record, release the slot - and an explicit completion barrier on worker
// joins, independent of the slot bookkeeping. Order between items is not
// guaranteed; concurrency forfeits inter-item ordering by design.
package batch
