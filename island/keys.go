package island

// Action is what a key press does in the building list.
type Action int

const (
	ActionNone Action = iota
	ActionPrev
	ActionNext
	ActionSelect
	ActionClear
	ActionMute
)

// KeyMap maps DOM key codes to list actions.
var KeyMap = map[int]Action{
	13: ActionSelect, // Enter
	27: ActionClear,  // Esc
	32: ActionSelect, // Space
	37: ActionPrev,   // Left
	38: ActionPrev,   // Up
	39: ActionNext,   // Right
	40: ActionNext,   // Down
	65: ActionPrev,   // A
	68: ActionNext,   // D
	77: ActionMute,   // M
	83: ActionNext,   // S
	87: ActionPrev,   // W
}

// TranslateKeyCode returns the action for keyCode, ActionNone if unmapped.
func TranslateKeyCode(keyCode int) Action {
	return KeyMap[keyCode]
}

// Step moves cursor by one position in a list of n items, wrapping around.
// A negative cursor means nothing is focused yet.
func Step(cursor, n int, a Action) int {
	if n <= 0 {
		return -1
	}
	switch a {
	case ActionNext:
		if cursor < 0 {
			return 0
		}
		return (cursor + 1) % n
	case ActionPrev:
		if cursor < 0 {
			return n - 1
		}
		return (cursor + n - 1) % n
	}
	return cursor
}
