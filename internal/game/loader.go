package game

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	colorize "github.com/fatih/color"
)

// placeholderPalette provides flat fill colors for synthesized surfaces
// when the asset directory yields fewer images than needed.
var placeholderPalette = []color.RGBA{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{255, 0, 255, 255},
	{0, 255, 255, 255},
	{128, 128, 128, 255},
	{255, 128, 0, 255},
}

// LoadSurfaces scans dir for image files and returns a mapping of
// identifier (base filename) to scaled surface. Files that fail to
// decode are skipped with a warning. If fewer than need images decode,
// flat-color placeholder surfaces fill the gap. It only fails when the
// placeholder palette cannot cover the deficit.
func LoadSurfaces(dir string, need, side int) (map[string]*Surface, error) {
	surfaces := make(map[string]*Surface)

	entries, err := os.ReadDir(dir)
	if err != nil {
		warnf("could not read image directory %s: %v", dir, err)
	}

	// os.ReadDir sorts by filename, so the selection is deterministic
	// for a given directory.
	for _, entry := range entries {
		if len(surfaces) >= need {
			break
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img, err := decodeImage(path)
		if err != nil {
			warnf("skipping %s: %v", entry.Name(), err)
			continue
		}

		id := entry.Name()
		surfaces[id] = NewImageSurface(id, img, side)
	}

	for i := 0; i < len(placeholderPalette) && len(surfaces) < need; i++ {
		id := fmt.Sprintf("placeholder_%d", i)
		if _, taken := surfaces[id]; taken {
			continue
		}
		surfaces[id] = NewColorSurface(id, placeholderPalette[i], side)
	}

	if len(surfaces) < need {
		return nil, fmt.Errorf("cannot synthesize %d placeholder surfaces: palette has only %d colors",
			need-len(surfaces), len(placeholderPalette))
	}

	return surfaces, nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func warnf(format string, args ...any) {
	colorize.New(colorize.FgYellow).Fprintf(os.Stderr, format+"\n", args...)
}
