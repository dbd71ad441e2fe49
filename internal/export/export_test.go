package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"floorplanner/internal/logger"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestScale(t *testing.T) {
	img := solid(40, 30, color.RGBA{10, 20, 30, 255})
	out := Scale(img, 2)
	assert.Equal(t, image.Rect(0, 0, 80, 60), out.Bounds())

	assert.Same(t, img, Scale(img, 1))
	assert.Same(t, img, Scale(img, 0.5))
}

func TestCaptionAddsFooter(t *testing.T) {
	img := solid(200, 50, color.RGBA{255, 0, 0, 255})
	out := Caption(img, "Total 120 EUR")
	b := out.Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Greater(t, b.Dy(), 50)

	r, _, _, _ := out.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r, "frame is kept on top")
	assert.Equal(t, color.RGBAModel.Convert(captionBg), color.RGBAModel.Convert(out.At(199, b.Dy()-1)))

	assert.Same(t, img, Caption(img, ""))
}

func TestExporterWritesPNG(t *testing.T) {
	dir := t.TempDir()
	log := logger.New("")
	e := New(filepath.Join(dir, "shots"), log)

	var gotPath string
	var gotErr error
	e.OnDone(func(path string, err error) { gotPath, gotErr = path, err })

	require.NoError(t, e.Start(solid(16, 8, color.RGBA{1, 2, 3, 255}), 2, "design"))
	e.Wait()

	require.NoError(t, gotErr)
	assert.Equal(t, filepath.Join(dir, "shots", FileName), gotPath)
	img, err := imgio.Open(gotPath)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	lines := log.Lines()
	require.NotEmpty(t, lines)
	assert.True(t, strings.Contains(lines[len(lines)-1], "saved"))
}

func TestExporterRejectsEmptyFrame(t *testing.T) {
	e := New(t.TempDir(), nil)
	assert.Error(t, e.Start(nil, 2, ""))
	assert.Error(t, e.Start(image.NewRGBA(image.Rect(0, 0, 0, 0)), 2, ""))
}

func TestExporterReportsSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	log := logger.New("")
	e := New(filepath.Join(blocker, "sub"), log)
	var gotErr error
	e.OnDone(func(_ string, err error) { gotErr = err })
	require.NoError(t, e.Start(solid(4, 4, color.RGBA{}), 1, ""))
	e.Wait()

	assert.Error(t, gotErr)
	lines := log.Lines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "export failed")
}
