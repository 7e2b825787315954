// Package memory provides the explorer's map memory: an insertion-ordered,
// last-write-wins log of location observations.
//
// The Log interface is the agent's externally visible long-term memory for a
// single run. It is mutated only through the explicit Record operation, never
// as a side effect of movement or look queries. Re-recording an existing key
// overwrites the earlier value while keeping the key's original position in
// the insertion order.
//
// Two implementations are provided:
//
//   - InMemoryLog: the default mutex-guarded in-process store
//   - RedisLog: a Redis-backed store for runs whose memory should be
//     inspectable by external tooling while the run is live. The store is
//     namespaced by run and deleted on Close, so nothing survives the run.
//
// Example usage:
//
//	log := memory.NewInMemoryLog()
//	_ = log.Record(ctx, "(1, 1)", "Area is Open.")
//
//	value, err := log.Get(ctx, "(1, 1)")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(value)
package memory
