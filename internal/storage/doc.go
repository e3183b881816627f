// Package storage implements the layered progress store: one capability interface ([Backend])
// and a facade ([Layered]) that fans writes out to every backend and reads them back in a fixed
// priority order.
//
// Backends, in the order the CLI ranks them:
//   - [PebbleStore] : fast synchronous key-value store on disk (cockroachdb/pebble)
//   - [SessionStore] : session-scoped JSON snapshot under the OS temp dir
//   - [Queue] wrapping [SQLStore] : structured SQLite store whose writes complete in the background
//
// [MemoryStore] serves tests and runs that should leave nothing behind.
//
// Every backend failure is isolated: [Layered.Set] and [Layered.Clear] return one [WriteResult]
// per backend and never roll back, and [Get] treats an unreadable or malformed value as absent and
// moves on to the next backend. Writes to an asynchronous backend are not awaited, so a read that
// follows a write is only guaranteed to observe it on the synchronous backends.
package storage
