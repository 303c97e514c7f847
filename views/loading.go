package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

// drawLoadingState renders a "Loading..." message in the view, or the last
// fetch error when there is one.
func drawLoadingState(ctx vxfw.DrawContext, owner vxfw.Widget, err error) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	seg := vaxis.Segment{Text: "Loading...", Style: vaxis.Style{Attribute: vaxis.AttrDim}}
	if err != nil {
		seg = vaxis.Segment{Text: "Error: " + err.Error(), Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}}
	}
	labelSurf, err := richtext.New([]vaxis.Segment{seg}).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, labelSurf)
	return s, nil
}
