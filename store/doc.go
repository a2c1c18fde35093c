// Package store holds conversation history and persists it.
//
// [MessageStore] is the ordered message log an agent loop owns for the
// duration of one run. It can be written to and read back from any [Adapter]:
//
//	ms := store.NewMessageStore(store.NewMemoryAdapter())
//	ms.Append(ai.NewUserMessage("hello"))
//	if err := ms.Sync(ctx, "run-42"); err != nil {
//	    return err
//	}
//
// Three adapters are provided: [MemoryAdapter] for tests and single-process
// use, [SQLiteAdapter] for a local transcript file and [RedisAdapter] for a
// shared transcript store.
package store
