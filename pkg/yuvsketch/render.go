package yuvsketch

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
)

const captionHeight = 20

// RenderFrame encodes a frame into an image file. The encoder follows the
// file extension: .jpg/.jpeg, .png, .tif/.tiff or .bmp. A non-empty caption
// is drawn in a strip below the picture.
func RenderFrame(f Frame, outputPath, caption string) error {
	encoding := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	img, err := renderFrameImage(f, caption)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create render file: %w", err)
	}
	defer out.Close()

	return encodeImage(out, img, encoding)
}

// RenderFrameBytes encodes a frame with the named encoder ("jpeg", "png",
// "tiff" or "bmp") and returns the encoded bytes.
func RenderFrameBytes(f Frame, caption, encoding string) ([]byte, error) {
	img, err := renderFrameImage(f, caption)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, img, encoding); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeImage(w io.Writer, img image.Image, encoding string) error {
	switch encoding {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "png":
		return png.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported image encoding %q", encoding)
}

// renderFrameImage converts the frame to RGBA and adds the caption strip.
func renderFrameImage(f Frame, caption string) (image.Image, error) {
	src, err := FrameToImage(f)
	if err != nil {
		return nil, err
	}
	if caption == "" {
		return src, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height+captionHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)
	draw.Draw(img, src.Bounds(), src, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawText(img, face, caption, 4, f.Height+captionHeight-5, color.RGBA{255, 255, 255, 255})
	return img, nil
}

func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
