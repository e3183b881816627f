// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin binding over a [progress.Session]:
//  1. [ComboView] : Show the current combo and a progress bar; advance, reset or reshuffle
//  2. [HistoryView] : Browse viewed combos, newest first
//  3. [ImportView] : Replace the menu from a file and reshuffle
//
// Every session mutation persists immediately. Quitting flushes queued writes before the
// program exits, the terminal equivalent of a page being hidden.
//
// Keyboard navigation uses single-key bindings (enter/space/n, r, s, h, i, esc, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
