package tui

type View int

const (
	ViewSearch View = iota
	ViewActivity
)

func (v View) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewActivity:
		return "activity"
	default:
		return "unknown"
	}
}
