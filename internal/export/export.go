// Package export turns a captured frame into the design snapshot PNG. Capture happens on the
// render loop; scaling, captioning and encoding run on a goroutine.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"floorplanner/internal/logger"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FileName is the snapshot file written in the export directory.
const FileName = "efimeros-3d-design.png"

// ErrBusy is returned by Start while a previous export is still encoding.
var ErrBusy = errors.New("export: already in progress")

var (
	captionBg    = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	captionColor = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
)

const captionPad = 8

// Scale resizes img by factor with linear filtering. Factors ≤ 1 return img unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, int(float64(b.Dx())*factor), int(float64(b.Dy())*factor), transform.Linear)
}

// Caption returns img with a footer band holding text. basicfont only covers Latin-1, so text
// must not carry symbols such as €. Empty text returns img unchanged.
func Caption(img image.Image, text string) image.Image {
	if text == "" {
		return img
	}
	face := basicfont.Face7x13
	band := face.Height + 2*captionPad
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+band))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	draw.Draw(out, image.Rect(0, b.Dy(), b.Dx(), b.Dy()+band), image.NewUniform(captionBg), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(captionColor),
		Face: face,
		Dot:  fixed.P(captionPad, b.Dy()+captionPad+face.Ascent),
	}
	d.DrawString(text)
	return out
}

// Save writes img as PNG to path, creating the directory if needed.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}

// Exporter runs one export at a time in the background and reports the outcome to the log.
type Exporter struct {
	dir  string
	log  *logger.Logger
	busy atomic.Bool
	wg   sync.WaitGroup
	done func(path string, err error)
}

// New returns an exporter writing FileName into dir.
func New(dir string, log *logger.Logger) *Exporter {
	return &Exporter{dir: dir, log: log}
}

// OnDone registers fn to run on the export goroutine after each export.
func (e *Exporter) OnDone(fn func(path string, err error)) {
	e.done = fn
}

// Path is where the snapshot is written.
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, FileName)
}

// Start scales frame by scale, adds caption and saves it asynchronously. frame must not be
// modified afterwards. It returns ErrBusy if an export is already running.
func (e *Exporter) Start(frame image.Image, scale float64, caption string) error {
	if frame == nil || frame.Bounds().Empty() {
		return errors.New("export: empty frame")
	}
	if !e.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	path := e.Path()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.busy.Store(false)
		err := Save(path, Caption(Scale(frame, scale), caption))
		if err != nil {
			e.log.Log("export failed: " + err.Error())
		} else {
			e.log.Logf("export: saved %s", path)
		}
		if e.done != nil {
			e.done(path, err)
		}
	}()
	return nil
}

// Wait blocks until the running export, if any, has finished.
func (e *Exporter) Wait() {
	e.wg.Wait()
}
