package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/screenrec/screenrec/internal/recording"
)

// minSelection is the smallest rectangle accepted, in window units. Anything
// smaller reads as a stray click.
const minSelection = 10

// SelectArea opens a full-screen overlay and lets the user drag out a
// rectangle. It blocks until the drag ends or the user presses Escape, then
// returns the selection in screen pixels. ok is false on cancel.
func SelectArea(app fyne.App) (recording.Region, bool) {
	result := make(chan selection, 1)

	win := app.NewWindow("Select area")
	win.SetPadded(false)

	overlay := newSelectionOverlay(func(sel selection) {
		select {
		case result <- sel:
		default:
		}
		win.Close()
	})
	win.SetContent(overlay)
	win.SetFullScreen(true)

	win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			select {
			case result <- selection{}:
			default:
			}
			win.Close()
		}
	})

	win.Show()

	sel := <-result
	if !sel.ok {
		return recording.Region{}, false
	}

	// Fyne positions are device-independent; the encoder wants pixels.
	scale := win.Canvas().Scale()
	return recording.Region{
		X:      int(sel.x * scale),
		Y:      int(sel.y * scale),
		Width:  int(sel.w * scale),
		Height: int(sel.h * scale),
	}, true
}

type selection struct {
	x, y, w, h float32
	ok         bool
}

// selectionOverlay is the drag surface: a dimmed background with a live
// rubber-band rectangle and a dimensions readout.
type selectionOverlay struct {
	widget.BaseWidget

	band  *canvas.Rectangle
	label *canvas.Text

	origin   fyne.Position
	dragging bool
	done     func(selection)
}

var _ desktop.Mouseable = (*selectionOverlay)(nil)
var _ fyne.Draggable = (*selectionOverlay)(nil)

func newSelectionOverlay(done func(selection)) *selectionOverlay {
	o := &selectionOverlay{done: done}
	o.band = canvas.NewRectangle(color.NRGBA{R: 0x3a, G: 0x8e, B: 0xe6, A: 0x50})
	o.band.StrokeColor = color.NRGBA{R: 0x3a, G: 0x8e, B: 0xe6, A: 0xff}
	o.band.StrokeWidth = 2
	o.band.Hide()
	o.label = canvas.NewText("drag to select, Esc to cancel", color.White)
	o.label.TextSize = 14
	o.ExtendBaseWidget(o)
	return o
}

func (o *selectionOverlay) MouseDown(ev *desktop.MouseEvent) {
	o.origin = ev.Position
	o.dragging = true
	o.band.Show()
	o.update(ev.Position)
}

func (o *selectionOverlay) MouseUp(ev *desktop.MouseEvent) {
	if !o.dragging {
		return
	}
	o.dragging = false
	x, y, w, h := o.bounds(ev.Position)
	if w < minSelection || h < minSelection {
		o.band.Hide()
		o.band.Refresh()
		return
	}
	o.done(selection{x: x, y: y, w: w, h: h, ok: true})
}

func (o *selectionOverlay) Dragged(ev *fyne.DragEvent) {
	if !o.dragging {
		return
	}
	o.update(ev.Position)
}

func (o *selectionOverlay) DragEnd() {}

func (o *selectionOverlay) update(pos fyne.Position) {
	x, y, w, h := o.bounds(pos)
	o.band.Move(fyne.NewPos(x, y))
	o.band.Resize(fyne.NewSize(w, h))
	o.band.Refresh()
	o.label.Text = fmt.Sprintf("%d x %d", int(w), int(h))
	o.label.Move(fyne.NewPos(x, y-20))
	o.label.Refresh()
}

// bounds normalizes the origin and current corner so dragging in any
// direction yields a positive-size rectangle.
func (o *selectionOverlay) bounds(pos fyne.Position) (x, y, w, h float32) {
	x, y = o.origin.X, o.origin.Y
	w, h = pos.X-x, pos.Y-y
	if w < 0 {
		x, w = pos.X, -w
	}
	if h < 0 {
		y, h = pos.Y, -h
	}
	return x, y, w, h
}

func (o *selectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	dim := canvas.NewRectangle(color.NRGBA{A: 0x30})
	content := container.NewWithoutLayout(dim, o.band, o.label)
	o.label.Move(fyne.NewPos(20, 20))
	return &overlayRenderer{dim: dim, content: content}
}

type overlayRenderer struct {
	dim     *canvas.Rectangle
	content *fyne.Container
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.dim.Resize(size)
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(100, 100) }
func (r *overlayRenderer) Refresh()                     { r.content.Refresh() }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.content} }
func (r *overlayRenderer) Destroy()                     {}
