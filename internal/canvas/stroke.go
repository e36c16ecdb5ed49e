package canvas

// Tool identifies the drawing primitive a stroke event was made with
type Tool string

const (
	ToolBrush     Tool = "brush"
	ToolEraser    Tool = "eraser"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
)

// Reports whether t is one of the known drawing tools
func (t Tool) Valid() bool {
	switch t {
	case ToolBrush, ToolEraser, ToolLine, ToolRectangle, ToolCircle:
		return true
	}
	return false
}

// One drawing primitive: a brush/eraser segment or a finalized shape.
// Immutable once appended to a history log; undo and redo move whole
// events, never parts of one.
type StrokeEvent struct {
	AuthorID      string  `json:"authorId"`
	StrokeGroupID string  `json:"strokeGroupId,omitempty"`
	Tool          Tool    `json:"tool"`
	FromX         float64 `json:"fromX"`
	FromY         float64 `json:"fromY"`
	ToX           float64 `json:"toX"`
	ToY           float64 `json:"toY"`
	Color         string  `json:"color"`
	StrokeWidth   float64 `json:"strokeWidth"`

	// Monotonically non-decreasing per room; ordering and debugging
	// only, never conflict resolution
	Seq int64 `json:"seq"`
}
