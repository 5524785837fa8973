package editor

// Mode is the editing mode.
type Mode int

const (
	// ModeNormal accepts commands.
	ModeNormal Mode = iota
	// ModeInsert types text at every cursor.
	ModeInsert
	// ModeVisual shows selections made by a select command.
	ModeVisual
)

// String returns the status-line name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeVisual:
		return "VISUAL"
	default:
		return "UNKNOWN"
	}
}
