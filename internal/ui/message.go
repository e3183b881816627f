package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgClearStatus MsgKind = iota
	MsgSaved
)

const statusTimeout = 3 * time.Second

// clearStatusMsg is the constructor for [MsgClearStatus]. seq identifies the status it clears,
// so a newer status is not wiped by an older timer.
func clearStatusMsg(seq int) Msg {
	return Msg{kind: MsgClearStatus, data: seq}
}

// savedMsg is the constructor for [MsgSaved], sent once a final flush on quit completes.
func savedMsg(err error) Msg {
	return Msg{kind: MsgSaved, data: err}
}

// clearStatusAfter schedules a [MsgClearStatus] for seq.
func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg(seq) })
}
