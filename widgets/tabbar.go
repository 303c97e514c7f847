package widgets

import (
	"strconv"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// TabBar is a horizontal tab navigation widget. Each tab shows the number
// key that selects it.
type TabBar struct {
	labels []string
	active int

	// Accent colours the active tab. Zero means reverse video only.
	Accent vaxis.Color
}

// NewTabBar creates a TabBar with the given labels. Active defaults to 0.
func NewTabBar(labels []string) *TabBar {
	return &TabBar{labels: labels}
}

// Len returns the number of tabs.
func (tb *TabBar) Len() int {
	return len(tb.labels)
}

// Active returns the currently active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// SetActive sets the active tab index. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.labels) {
		tb.active = i
	}
}

// Next advances to the next tab, wrapping around.
func (tb *TabBar) Next() {
	tb.active = (tb.active + 1) % len(tb.labels)
}

// Prev moves to the previous tab, wrapping around.
func (tb *TabBar) Prev() {
	tb.active = (tb.active - 1 + len(tb.labels)) % len(tb.labels)
}

// Draw renders the tabs as a single row: " 1 Chart   2 Values "
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)

	col := uint16(0)
	for i, label := range tb.labels {
		if i > 0 {
			col = writeString(ctx, &s, col, 0, "  ", vaxis.Style{})
		}
		hint := vaxis.Style{Attribute: vaxis.AttrDim}
		style := vaxis.Style{}
		if i == tb.active {
			hint = vaxis.Style{Attribute: vaxis.AttrReverse}
			style = vaxis.Style{Attribute: vaxis.AttrReverse | vaxis.AttrBold}
			if tb.Accent != 0 {
				style.Foreground = tb.Accent
			}
		}
		col = writeString(ctx, &s, col, 0, " "+strconv.Itoa(i+1), hint)
		col = writeString(ctx, &s, col, 0, " "+label+" ", style)
	}
	return s, nil
}
