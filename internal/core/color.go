package core

// Color is a terminal color specification for a screen cell: a "#rrggbb"
// hex string, an ANSI code such as "245", or empty for the terminal default.
type Color string

// Predefined colors for board elements.
const (
	ColorDefault Color = ""
	ColorBorder  Color = "#1DB954"
	ColorSnake   Color = "#1DB954"
	ColorHead    Color = "#F5F5F5"
	ColorFood    Color = "#E91E63"
	ColorText    Color = "#F5F5F5"
	ColorDim     Color = "245"
	ColorAlert   Color = "#FF5252"
)
