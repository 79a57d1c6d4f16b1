package yuvsketch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// FrameReader reads consecutive tightly packed raw frames of one layout
// from a stream, e.g. the output of `ffmpeg -f rawvideo -pix_fmt yuyv422`.
type FrameReader struct {
	r      *bufio.Reader
	format PixelFormat
	width  int
	height int
	size   int
	count  int
}

// NewFrameReader validates the geometry and wraps r.
func NewFrameReader(r io.Reader, format PixelFormat, width, height int) (*FrameReader, error) {
	if width <= 0 || height <= 0 || width%2 != 0 {
		return nil, fmt.Errorf("%s %dx%d: %w", format, width, height, ErrInvalidDimensions)
	}
	size, err := checkedImageSize(format, width, height)
	if err != nil {
		return nil, err
	}
	return &FrameReader{
		r:      bufio.NewReaderSize(r, int(size)),
		format: format,
		width:  width,
		height: height,
		size:   int(size),
	}, nil
}

// FrameSize returns the byte size of one frame.
func (fr *FrameReader) FrameSize() int { return fr.size }

// Count returns the number of frames read so far.
func (fr *FrameReader) Count() int { return fr.count }

// Next reads the next frame into buf (allocated when too short) and
// returns it. io.EOF marks a clean end of stream; a trailing partial frame
// is reported as io.ErrUnexpectedEOF.
func (fr *FrameReader) Next(buf []byte) (Frame, error) {
	if len(buf) < fr.size {
		buf = make([]byte, fr.size)
	}
	buf = buf[:fr.size]
	if _, err := io.ReadFull(fr.r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, fmt.Errorf("reading frame %d: %w", fr.count, err)
		}
		return Frame{}, err
	}
	fr.count++
	return Frame{
		Format: fr.format,
		Width:  fr.width,
		Height: fr.height,
		Stride: fr.format.MinStride(fr.width),
		Data:   buf,
	}, nil
}

// ReadRawFrame reads the first frame of a raw file.
func ReadRawFrame(filePath string, format PixelFormat, width, height int) (Frame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Frame{}, fmt.Errorf("opening raw frame file: %w", err)
	}
	defer f.Close()

	fr, err := NewFrameReader(f, format, width, height)
	if err != nil {
		return Frame{}, err
	}
	frame, err := fr.Next(nil)
	if err != nil {
		return Frame{}, fmt.Errorf("reading raw frame: %w", err)
	}
	return frame, nil
}

// ReadRawFrameFromBytes wraps the first frame held in data.
func ReadRawFrameFromBytes(data []byte, format PixelFormat, width, height int) (Frame, error) {
	fr, err := NewFrameReader(bytes.NewReader(data), format, width, height)
	if err != nil {
		return Frame{}, err
	}
	frame, err := fr.Next(nil)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, fmt.Errorf("empty frame data: %w", ErrBufferTooSmall)
		}
		return Frame{}, fmt.Errorf("%w: %w", ErrBufferTooSmall, err)
	}
	return frame, nil
}

// WriteFrame writes the visible bytes of f, dropping stride padding.
func WriteFrame(w io.Writer, f Frame) error {
	rowBytes := f.Format.MinStride(f.Width)
	rows := f.Height + f.Format.chromaRows(f.Height)
	for y := 0; y < rows; y++ {
		start := y * f.Stride
		if _, err := w.Write(f.Data[start : start+rowBytes]); err != nil {
			return fmt.Errorf("writing frame row %d: %w", y, err)
		}
	}
	return nil
}
