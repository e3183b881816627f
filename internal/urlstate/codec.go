package urlstate

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/breakfast/internal/models"
	"github.com/desertthunder/breakfast/internal/shared"
)

// Codec reads and writes progress state through an [Address] fragment.
type Codec struct {
	addr   Address
	logger *log.Logger
}

// NewCodec binds a codec to addr.
func NewCodec(addr Address, logger *log.Logger) *Codec {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Codec{addr: addr, logger: shared.WithLogger(logger, "component", "urlstate")}
}

// Save encodes state and installs it as the fragment.
func (c *Codec) Save(state models.ProgressState) error {
	token, err := Encode(state)
	if err != nil {
		c.logger.Warn("failed to encode state", "error", err)
		return err
	}
	if err := c.addr.ReplaceFragment(token); err != nil {
		c.logger.Warn("failed to replace fragment", "error", err)
		return err
	}
	return nil
}

// Load decodes the current fragment. A missing or malformed fragment is
// reported as absent, never as an error.
func (c *Codec) Load() (models.ProgressState, bool) {
	fragment := c.addr.Fragment()
	if fragment == "" {
		return models.ProgressState{}, false
	}

	state, err := Decode(fragment)
	if err != nil {
		c.logger.Warn("ignoring fragment", "error", err)
		return models.ProgressState{}, false
	}
	return state, true
}

// Clear removes the fragment.
func (c *Codec) Clear() error {
	if err := c.addr.ReplaceFragment(""); err != nil {
		c.logger.Warn("failed to clear fragment", "error", err)
		return err
	}
	return nil
}

// ShareURL returns the full address including the state fragment.
func (c *Codec) ShareURL() string {
	return c.addr.URL()
}
