package core

// Color is a foreground color for a screen cell. The zero value draws with
// the terminal's default color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorBrightGreen
	ColorGray
)

// Board element colors.
const (
	ColorSnakeHead  = ColorBrightGreen
	ColorSnakeBody  = ColorGreen
	ColorFood       = ColorRed
	ColorObstacle   = ColorGray
	ColorBorder     = ColorBlue
	ColorBorderDead = ColorRed
)
