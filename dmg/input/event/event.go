package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Button pressed down
	Release             // Button released
	Hold                // Continuous while held down; repeat events from the backend's own key-repeat

	// Press/Release are debounced per action.ActionInfo.Debounce, not by Type:
	// UI/emulator-control actions debounce, Game Boy button actions never do.
)
