package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
)

// bufferLoop replays a decoded buffer forever.
type bufferLoop struct {
	buf *beep.Buffer
	cur beep.StreamSeeker
}

func (l *bufferLoop) Stream(samples [][2]float64) (n int, ok bool) {
	if l.buf.Len() == 0 {
		return 0, false
	}
	for n < len(samples) {
		if l.cur == nil {
			l.cur = l.buf.Streamer(0, l.buf.Len())
		}
		m, more := l.cur.Stream(samples[n:])
		n += m
		if !more || m == 0 {
			l.cur = nil
		}
	}
	return n, true
}

func (l *bufferLoop) Err() error { return nil }

// decodeWAV loads path into memory at sample rate sr.
func decodeWAV(path string, sr beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != sr {
		src = beep.Resample(4, format.SampleRate, sr, s)
	}
	format.SampleRate = sr
	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return buf, nil
}

// withGain applies a linear gain on a log2 scale, following effects.Volume.
func withGain(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	if gain == 1 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
