// Package progress owns a shuffled sequence of combos, the position within it and the
// history of combos already viewed.
//
// A [Session] is built with its collaborators (menu source, storage facade, URL codec) and
// loaded once with [Session.Load]:
//
//  1. the share-link fragment is tried first and adopted verbatim;
//  2. otherwise the three storage keys are read, missing ones defaulting to zero values;
//  3. the loaded state is reconciled (see [models.ProgressState.Reconcile]);
//  4. when the sequence is empty or its length no longer matches the menu, it is reshuffled.
//
// Every mutation ([Session.Advance], [Session.Reset], [Session.Reshuffle]) persists to storage and
// the share link. A Session is single-owner and must not be used from several goroutines at once.
package progress
