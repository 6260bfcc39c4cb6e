package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/gogpu/pixmask"
)

const hitToneMs = 60

// cell classifies one pixel of the composed scene.
type cell int

const (
	cellEmpty cell = iota
	cellA
	cellB
	cellBoth
)

// scene is the pure part of the viewer: two masks and the offset of b
// relative to a.
type scene struct {
	a, b      *pixmask.Mask
	dx, dy    int
	colliding bool
}

// move shifts b and reports whether a collision just started.
func (s *scene) move(dx, dy int) bool {
	s.dx += dx
	s.dy += dy
	hit := s.a.Overlap(s.b, s.dx, s.dy)
	started := hit && !s.colliding
	s.colliding = hit
	return started
}

// at classifies the scene point (x, y) in a's coordinates.
func (s *scene) at(x, y int) cell {
	inA := x >= 0 && y >= 0 && x < s.a.Width() && y < s.a.Height() && s.a.At(x, y)
	bx, by := x-s.dx, y-s.dy
	inB := bx >= 0 && by >= 0 && bx < s.b.Width() && by < s.b.Height() && s.b.At(bx, by)
	switch {
	case inA && inB:
		return cellBoth
	case inA:
		return cellA
	case inB:
		return cellB
	default:
		return cellEmpty
	}
}

func (s *scene) status() string {
	return fmt.Sprintf("offset (%d, %d)  overlap %v  area %d  [arrows/hjkl move, q quits]",
		s.dx, s.dy, s.colliding, s.a.OverlapArea(s.b, s.dx, s.dy))
}

type viewer struct {
	screen tcell.Screen
	scene  scene

	// Audio
	audioInit bool
}

func newViewer(a, b *pixmask.Mask) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &viewer{screen: screen, scene: scene{a: a, b: b}}
	v.scene.colliding = a.Overlap(b, 0, 0)
	return v, nil
}

func (v *viewer) close() {
	v.screen.Fini()
	if v.audioInit {
		speaker.Close()
	}
}

func (v *viewer) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		v.audioInit = true
	}
	return err
}

func (v *viewer) playHitSound() {
	if !v.audioInit {
		return
	}

	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(hitToneMs*time.Millisecond), sine))
}

func (v *viewer) run() {
	v.draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			dx, dy, quit := keyAction(ev)
			if quit {
				return
			}
			if (dx != 0 || dy != 0) && v.scene.move(dx, dy) {
				v.playHitSound()
			}
		case nil:
			return
		}
		v.draw()
	}
}

// keyAction maps a key press to a movement or quit request.
func keyAction(ev *tcell.EventKey) (dx, dy int, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, 0, true
	case tcell.KeyLeft:
		return -1, 0, false
	case tcell.KeyRight:
		return 1, 0, false
	case tcell.KeyUp:
		return 0, -1, false
	case tcell.KeyDown:
		return 0, 1, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return 0, 0, true
		case 'h':
			return -1, 0, false
		case 'l':
			return 1, 0, false
		case 'k':
			return 0, -1, false
		case 'j':
			return 0, 1, false
		}
	}
	return 0, 0, false
}

var cellStyles = [...]tcell.Style{
	cellEmpty: tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	cellA:     tcell.StyleDefault.Foreground(tcell.ColorBlue),
	cellB:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
	cellBoth:  tcell.StyleDefault.Foreground(tcell.ColorRed),
}

var cellRunes = [...]rune{
	cellEmpty: '·',
	cellA:     '█',
	cellB:     '█',
	cellBoth:  '█',
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	// Keep a at a fixed margin; b is drawn relative to it.
	const margin = 2
	for sy := 0; sy < h-1; sy++ {
		for sx := 0; sx < w; sx++ {
			c := v.scene.at(sx-margin, sy-margin)
			if c == cellEmpty && !v.inEither(sx-margin, sy-margin) {
				continue
			}
			v.screen.SetContent(sx, sy, cellRunes[c], nil, cellStyles[c])
		}
	}

	style := tcell.StyleDefault
	if v.scene.colliding {
		style = style.Foreground(tcell.ColorRed).Bold(true)
	}
	for i, r := range []rune(v.scene.status()) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, h-1, r, nil, style)
	}
	v.screen.Show()
}

// inEither reports whether (x, y) lies inside the bounds of a or b.
func (v *viewer) inEither(x, y int) bool {
	s := &v.scene
	bx, by := x-s.dx, y-s.dy
	return (x >= 0 && y >= 0 && x < s.a.Width() && y < s.a.Height()) ||
		(bx >= 0 && by >= 0 && bx < s.b.Width() && by < s.b.Height())
}
