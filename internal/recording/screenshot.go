package recording

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/screenrec/screenrec/internal/config"
)

// ErrBadImageExtension rejects screenshot paths whose extension the encoder
// cannot write as a still image.
var ErrBadImageExtension = errors.New("screenshot path must end in .png, .jpg or .jpeg")

// Region is a rectangle on the desktop in pixels, origin top-left.
type Region struct {
	X, Y          int
	Width, Height int
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d at %d,%d", r.Width, r.Height, r.X, r.Y)
}

// BuildScreenshotArgs synthesizes a one-frame grab of the desktop, optionally
// cropped to a region. The same ordering rules as recording commands apply:
// inputs first, `-y` and the output path last.
func BuildScreenshotArgs(cfg *config.Config, region *Region, outputPath string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".png", ".jpg", ".jpeg":
	default:
		return nil, ErrBadImageExtension
	}

	switch runtime.GOOS {
	case "linux":
		return x11ScreenshotArgs(cfg, region, outputPath), nil
	case "windows":
		return gdiScreenshotArgs(region, outputPath), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

func x11ScreenshotArgs(cfg *config.Config, region *Region, outputPath string) []string {
	args := []string{"-f", "x11grab", "-framerate", "1"}
	input := displayOf(cfg)
	if region != nil {
		args = append(args, "-video_size", fmt.Sprintf("%dx%d", region.Width, region.Height))
		input = fmt.Sprintf("%s+%d,%d", input, region.X, region.Y)
	} else if cfg.VideoSize != "" {
		args = append(args, "-video_size", cfg.VideoSize)
	}
	args = append(args, "-i", input)
	args = append(args, "-frames:v", "1", "-y", outputPath)
	return args
}

func gdiScreenshotArgs(region *Region, outputPath string) []string {
	args := []string{"-f", "gdigrab", "-framerate", "1"}
	if region != nil {
		args = append(args,
			"-offset_x", strconv.Itoa(region.X),
			"-offset_y", strconv.Itoa(region.Y),
			"-video_size", fmt.Sprintf("%dx%d", region.Width, region.Height),
		)
	}
	args = append(args, "-i", "desktop")
	args = append(args, "-frames:v", "1", "-y", outputPath)
	return args
}
