package domain

// palette holds the 12 presence colors clients expect for cursors and
// user chips.
var palette = [...]string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8B739", "#52BE80", "#EC7063", "#5DADE2",
}

// ColorFor returns the palette entry for the n-th member to join a room.
// Colors wrap once a room outgrows the palette; departures never trigger
// reassignment, so colors may repeat after reordering leaves.
func ColorFor(n int) string {
	if n < 0 {
		n = 0
	}
	return palette[n%len(palette)]
}

// PaletteSize is exposed for callers that reason about color wrapping.
func PaletteSize() int { return len(palette) }
