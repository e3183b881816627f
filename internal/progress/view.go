package progress

import (
	"fmt"
	"slices"

	"github.com/desertthunder/breakfast/internal/models"
)

const (
	CompletedText  = "All combos viewed!"
	CompletedPrice = "Reset or reshuffle to start over"
)

// View is what presentation layers render.
type View struct {
	CurrentText  string   `json:"currentText"`
	CurrentPrice string   `json:"currentPrice"`
	Completed    bool     `json:"completed"`
	Index        int      `json:"index"`
	Total        int      `json:"total"`
	Progress     string   `json:"progress"`
	Percent      int      `json:"percent"`
	History      []string `json:"history"`
	ShareURL     string   `json:"shareUrl,omitempty"`
}

// Fraction returns the viewed share in [0, 1].
func (v View) Fraction() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Index) / float64(v.Total)
}

// newView derives the rendered fields from state.
func newView(state models.ProgressState) View {
	v := View{
		Index:    state.CurrentIndex,
		Total:    state.Total(),
		Progress: fmt.Sprintf("%d/%d", state.CurrentIndex, state.Total()),
		Percent:  percent(state.CurrentIndex, state.Total()),
		History:  slices.Clone(state.ViewedCombos),
	}
	slices.Reverse(v.History)
	if v.History == nil {
		v.History = []string{}
	}

	if state.Done() {
		v.Completed = true
		v.CurrentText = CompletedText
		v.CurrentPrice = CompletedPrice
		return v
	}

	v.CurrentText, v.CurrentPrice, _ = models.SplitCombo(state.ShuffledCombos[state.CurrentIndex])
	return v
}

// percent rounds half up, matching what users see for 1/3 (33) and 1/2 (50).
func percent(index, total int) int {
	if total <= 0 {
		return 0
	}
	return (index*200 + total) / (total * 2)
}
