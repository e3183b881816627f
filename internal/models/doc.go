// Package models defines the data carried between the progress session, its persistence layers and the presentation bindings.
//
//   - [ProgressState] : the full resumable state (shuffled sequence, position, history, save time)
//   - [Combo] : a single menu entry of the form "<name> = <price>"
//
// Nothing in this package performs I/O. Consistency between CurrentIndex and ViewedCombos is
// restored by [ProgressState.Reconcile], which the session applies to every loaded state.
package models
