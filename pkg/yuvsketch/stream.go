package yuvsketch

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// StreamStats summarises a ProcessStream run.
type StreamStats struct {
	Frames  int
	Bytes   int64
	Elapsed time.Duration
	Variant Variant
}

// ProcessStream transforms every frame of fr and writes the results to w.
// The engine is (re)configured for the reader's geometry first. Frames are
// processed one at a time; ctx is checked between frames only, a frame in
// flight always completes.
func ProcessStream(ctx context.Context, e *Engine, fr *FrameReader, w io.Writer) (StreamStats, error) {
	stats := StreamStats{}
	start := time.Now()
	if err := e.Configure(fr.format, fr.width, fr.height); err != nil {
		return stats, err
	}
	stats.Variant = e.Variant()

	out, err := NewFrame(fr.format, fr.width, fr.height)
	if err != nil {
		return stats, err
	}
	in := make([]byte, fr.FrameSize())

	for {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
		src, err := fr.Next(in)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
		if err := e.Transform(src, out); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
		if err := WriteFrame(w, out); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
		stats.Frames++
		stats.Bytes += int64(len(out.Data))
	}
	stats.Elapsed = time.Since(start)

	e.log.WithFields(logrus.Fields{
		"function": "ProcessStream",
		"frames":   stats.Frames,
		"bytes":    stats.Bytes,
		"elapsed":  stats.Elapsed.String(),
		"variant":  stats.Variant.String(),
	}).Info("Stream processed")
	return stats, nil
}
