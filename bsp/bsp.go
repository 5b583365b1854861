/*
   implements the BSP https://en.wikipedia.org/wiki/Bulk_synchronous_parallel computing model
   as a fork-join pool: every step runs one task per partition and ends with a barrier
*/
package bsp

// Aggregator combines values produced by the tasks of a step. Aggregators are
// safe for concurrent use, but callers are expected to combine partial values
// after the step barrier rather than contend on a shared accumulator.
type Aggregator interface {
	Type() string
	Set(val any)
	Get() any
	// updates the Aggregator value based on the current value.
	Aggregate(val any)
}
