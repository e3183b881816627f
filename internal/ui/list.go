package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/breakfast/internal/models"
)

var _ list.Item = historyItem{}

// historyItem wraps a viewed combo to implement [list.Item].
type historyItem struct {
	combo    models.Combo
	position int
}

func (i historyItem) FilterValue() string { return i.combo }

func (i historyItem) Title() string {
	name, _, _ := models.SplitCombo(i.combo)
	return name
}

func (i historyItem) Description() string {
	if _, price, ok := models.SplitCombo(i.combo); ok {
		return fmt.Sprintf("#%d • %s", i.position, price)
	}
	return fmt.Sprintf("#%d", i.position)
}

// historyItems converts newest-first history into list items numbered by viewing order.
func historyItems(history []string) []list.Item {
	items := make([]list.Item, len(history))
	for i, combo := range history {
		items[i] = historyItem{combo: combo, position: len(history) - i}
	}
	return items
}
