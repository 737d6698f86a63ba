package tui

// Action is the demo action space the default profile binds. Profiles
// resolve against Actions(), so renaming here changes what a profile may
// reference.
type Action uint8

const (
	ActionNone Action = iota
	ActionJump
	ActionFire
	ActionMove
	ActionQuickSave
	ActionMenu
)

func (a Action) String() string {
	switch a {
	case ActionJump:
		return "jump"
	case ActionFire:
		return "fire"
	case ActionMove:
		return "move"
	case ActionQuickSave:
		return "quick-save"
	case ActionMenu:
		return "menu"
	default:
		return "none"
	}
}

// Valid reports whether a names a real action. Hash coercion checks this
// before admitting profile-supplied hashes into the action space.
func (a Action) Valid() bool {
	return a > ActionNone && a <= ActionMenu
}

// Actions returns the name table profiles resolve against.
func Actions() map[string]Action {
	return map[string]Action{
		"jump":       ActionJump,
		"fire":       ActionFire,
		"move":       ActionMove,
		"quick-save": ActionQuickSave,
		"menu":       ActionMenu,
	}
}
