package render

import (
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/board"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsandboxes-backend/internal/geometry"
)

const (
	KindClear  = "clear"
	KindLine   = "line"
	KindCircle = "circle"
	KindText   = "text"
)

const (
	labelOffset       = 50
	touchMarkerRadius = 10
)

// Style is the stateless look of a board. Colors are "#rrggbb" strings.
type Style struct {
	Background string                 `json:"background"`
	DotColor   string                 `json:"dot_color"`
	TextColor  string                 `json:"text_color"`
	TouchColor string                 `json:"touch_color"`
	SideColors map[entity.Side]string `json:"side_colors"`
	DotRadius  float64                `json:"dot_radius"`
	LineWidth  float64                `json:"line_width"`
	HomeRadius float64                `json:"home_radius"`
	TextSize   float64                `json:"text_size"`
	Debug      bool                   `json:"debug"`
}

func DefaultStyle() Style {
	return Style{
		Background: "#222222",
		DotColor:   "#ffffff",
		TextColor:  "#ffffff",
		TouchColor: "#ff0000",
		SideColors: map[entity.Side]string{
			entity.SideOne: "#4444ff",
			entity.SideTwo: "#ff4444",
		},
		DotRadius:  15,
		LineWidth:  10,
		HomeRadius: 30,
		TextSize:   30,
	}
}

func (that Style) sideColor(side entity.Side) string {
	if c, ok := that.SideColors[side]; ok {
		return c
	}
	return that.DotColor
}

// Command is a single draw call. Only the fields of its Kind are set.
type Command struct {
	Kind   string  `json:"kind"`
	Color  string  `json:"color"`
	X1     float64 `json:"x1,omitempty"`
	Y1     float64 `json:"y1,omitempty"`
	X2     float64 `json:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// Frame is what one redraw needs.
type Frame struct {
	Snapshot  board.Snapshot
	LastTouch *entity.Touch
}

// Render lists the draw calls for a frame in paint order: background, lines,
// home markers, dots and the debug overlay.
func Render(grid *geometry.Grid, frame Frame, style Style) []Command {
	size := grid.Size()
	half := grid.Spacing() / 2

	commands := make([]Command, 0, 1+len(frame.Snapshot.Edges)+len(frame.Snapshot.Homes)+2*size.Points()+1)
	commands = append(commands, Command{Kind: KindClear, Color: style.Background})

	for _, edge := range frame.Snapshot.Edges {
		from := grid.ToPosition(edge.From)
		to := grid.ToPosition(edge.To)
		commands = append(commands, Command{
			Kind:  KindLine,
			Color: style.sideColor(edge.Side),
			X1:    from.X,
			Y1:    from.Y,
			X2:    to.X,
			Y2:    to.Y,
			Width: style.LineWidth,
		})
	}

	for _, home := range frame.Snapshot.Homes {
		corner := grid.ToPosition(entity.GridPoint{Column: home.Cell.Column, Row: home.Cell.Row})
		commands = append(commands, Command{
			Kind:   KindCircle,
			Color:  style.sideColor(home.Side),
			X1:     corner.X + half,
			Y1:     corner.Y - half,
			Radius: style.HomeRadius,
		})
	}

	for c := 0; c < size.Columns; c++ {
		for r := 0; r < size.Rows; r++ {
			p := grid.ToPosition(entity.GridPoint{Column: c, Row: r})
			commands = append(commands, Command{Kind: KindCircle, Color: style.DotColor, X1: p.X, Y1: p.Y, Radius: style.DotRadius})
		}
	}

	if !style.Debug {
		return commands
	}

	if frame.LastTouch != nil {
		commands = append(commands, Command{
			Kind:   KindCircle,
			Color:  style.TouchColor,
			X1:     frame.LastTouch.X,
			Y1:     frame.LastTouch.Y,
			Radius: touchMarkerRadius,
		})
	}

	for c := 0; c < size.Columns; c++ {
		for r := 0; r < size.Rows; r++ {
			gp := entity.GridPoint{Column: c, Row: r}
			p := grid.ToPosition(gp)
			commands = append(commands, Command{
				Kind:  KindText,
				Color: style.TextColor,
				X1:    p.X,
				Y1:    p.Y + labelOffset,
				Size:  style.TextSize,
				Text:  gp.String(),
			})
		}
	}

	return commands
}
