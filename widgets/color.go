package widgets

import (
	"image/color"

	"git.sr.ht/~rockorager/vaxis"
)

// RGB converts c to a 24-bit terminal colour, dropping alpha.
func RGB(c color.Color) vaxis.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return vaxis.RGBColor(n.R, n.G, n.B)
}
