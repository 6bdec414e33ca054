// Package icon draws the tempo app icon programmatically so binaries
// need no bundled assets.
package icon

import (
	"image"
	"image/color"
	"math"
)

var (
	dial = color.RGBA{R: 0xD9, G: 0x4A, B: 0x3D, A: 0xFF} // tomato
	face = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Draw renders the icon at the given pixel size: a tomato dial with a
// white wedge sweeping the first quarter, like a kitchen timer wound to
// fifteen minutes.
func Draw(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	cx := float64(size) / 2
	cy := float64(size) / 2
	outer := float64(size) * 0.46
	inner := float64(size) * 0.36

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			r := math.Hypot(dx, dy)
			if r > outer {
				continue
			}
			img.Set(x, y, dial)
			if r > inner {
				continue
			}
			// Angle measured clockwise from 12 o'clock.
			angle := math.Atan2(dx, -dy)
			if angle >= 0 && angle <= math.Pi/2 {
				img.Set(x, y, face)
			}
		}
	}
	return img
}
