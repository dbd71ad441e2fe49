package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.TTF"))
	touch(t, filepath.Join(dir, "readme.txt"))

	list, err := ScanDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Inter/Inter-Bold.ttf", "Inter/Inter-Regular.TTF"}, list)

	list, err = ScanDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFindPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Open_Sans", "OpenSans-Bold.ttf"))
	touch(t, filepath.Join(dir, "Open_Sans", "OpenSans-Regular.ttf"))

	path, err := Find(dir, "open sans")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Open_Sans", "OpenSans-Regular.ttf"), path)

	path, err = Find(dir, "OpenSans-Bold.ttf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Open_Sans", "OpenSans-Bold.ttf"), path)

	_, err = Find(dir, "Roboto")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = Find(dir, " ")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCodepoints(t *testing.T) {
	cps := Codepoints("Sofá €", "año\n")
	assert.Equal(t, rune(32), cps[0])
	assert.Contains(t, cps, 'á')
	assert.Contains(t, cps, '€')
	assert.Contains(t, cps, 'ñ')
	assert.NotContains(t, cps, '\n')
	assert.Len(t, cps, 95+3)
}
