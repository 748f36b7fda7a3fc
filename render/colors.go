package render

import (
	"image/color"

	"golang.org/x/image/colornames"
)

var (
	White = colornames.White
	Black = colornames.Black

	// trackColors is the palette track trails and boxes are drawn with,
	// assigned by track ID so an identity keeps its color across frames
	trackColors = []color.RGBA{
		colornames.Deeppink,
		colornames.Lime,
		colornames.Deepskyblue,
		colornames.Orange,
		colornames.Yellow,
		colornames.Mediumorchid,
		colornames.Springgreen,
		colornames.Tomato,
		colornames.Aqua,
		colornames.Cornflowerblue,
		colornames.Gold,
		colornames.Salmon,
	}
)

// TrackColor returns a stable color for the given track ID
func TrackColor(id int) color.RGBA {
	return trackColors[id%len(trackColors)]
}
