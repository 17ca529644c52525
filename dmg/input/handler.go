package input

import (
	"time"

	"github.com/palebit/dmgcore/dmg/backend"
	"github.com/palebit/dmgcore/dmg/input/action"
	"github.com/palebit/dmgcore/dmg/input/event"
)

// Handler manages input processing with debouncing for UI actions
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  300 * time.Millisecond,
	}
}

// SetDebounceDelay overrides the default 300ms debounce window, mainly for
// tests that don't want to sleep 300ms+ per case.
func (h *Handler) SetDebounceDelay(d time.Duration) {
	h.debounceDelay = d
}

// ProcessEvent processes an input event, debouncing Press/Release events for
// actions whose metadata (action.GetInfo) marks them as debounced. Game Boy
// button presses are never debounced here — a player mashing A faster than
// the debounce window would otherwise have most of their presses dropped.
// Returns true if the event should be handled, false if it was debounced.
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if (evt.Type == event.Press || evt.Type == event.Release) && action.GetInfo(evt.Action).Debounce {
		now := time.Now()
		if lastTime, exists := h.lastActionTime[evt.Action]; exists {
			if now.Sub(lastTime) < h.debounceDelay {
				return false
			}
		}
		h.lastActionTime[evt.Action] = now
	}

	return true
}
