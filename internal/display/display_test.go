package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const xrandrOutput = `Screen 0: minimum 320 x 200, current 2560 x 1440, maximum 16384 x 16384
DP-1 connected primary 2560x1440+0+0 (normal left inverted right x axis y axis) 597mm x 336mm
   2560x1440     59.95*+
   1920x1080     60.00    59.94
HDMI-1 disconnected (normal left inverted right x axis y axis)
`

const xdpyinfoOutput = `name of display:    :0
version number:    11.0
screen #0:
  dimensions:    1920x1080 pixels (508x285 millimeters)
  resolution:    96x96 dots per inch
`

func TestParseXrandr(t *testing.T) {
	assert.Equal(t, "2560x1440", parseXrandr(xrandrOutput))
}

func TestParseXrandrNoActiveMode(t *testing.T) {
	assert.Equal(t, "", parseXrandr("HDMI-1 disconnected\n"))
	assert.Equal(t, "", parseXrandr(""))
}

func TestParseXdpyinfo(t *testing.T) {
	assert.Equal(t, "1920x1080", parseXdpyinfo(xdpyinfoOutput))
}

func TestParseXdpyinfoMissing(t *testing.T) {
	assert.Equal(t, "", parseXdpyinfo("name of display: :0\n"))
}

func TestIsResolution(t *testing.T) {
	assert.True(t, isResolution("1920x1080"))
	assert.True(t, isResolution("640x480"))
	assert.False(t, isResolution("1920x"))
	assert.False(t, isResolution("x1080"))
	assert.False(t, isResolution("axis"))
	assert.False(t, isResolution("597mm"))
}

func TestNameDefault(t *testing.T) {
	t.Setenv("DISPLAY", "")
	assert.Equal(t, ":0.0", Name())

	t.Setenv("DISPLAY", ":1")
	assert.Equal(t, ":1", Name())
}
