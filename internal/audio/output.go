package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output is the device the dispatcher's mix is played on.
type Output interface {
	// Init opens the device and starts pulling from s.
	Init(sr beep.SampleRate, s beep.Streamer) error
	// Lock and Unlock guard mutations of streamers the device is pulling from.
	Lock()
	Unlock()
	Close()
}

// SpeakerOutput plays through the system speaker.
type SpeakerOutput struct {
	// Buffer is the device latency; 100ms when zero.
	Buffer time.Duration
}

func (o SpeakerOutput) Init(sr beep.SampleRate, s beep.Streamer) error {
	buf := o.Buffer
	if buf <= 0 {
		buf = 100 * time.Millisecond
	}
	if err := speaker.Init(sr, sr.N(buf)); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func (SpeakerOutput) Lock()   { speaker.Lock() }
func (SpeakerOutput) Unlock() { speaker.Unlock() }

func (SpeakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}
