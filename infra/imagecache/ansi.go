package imagecache

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// RenderANSI draws img as w columns by h rows of upper-half blocks, each
// cell carrying two vertically stacked pixels (foreground over background).
func RenderANSI(img image.Image, w, h int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}
	w = max(w, 4)
	h = max(h, 2)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var out strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := dst.NRGBAAt(x, y*2)
			bottom := dst.NRGBAAt(x, y*2+1)
			writeCell(&out, top, bottom)
		}
		out.WriteString("\x1b[0m")
		if y < h-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func writeCell(out *strings.Builder, top, bottom color.NRGBA) {
	fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
}
