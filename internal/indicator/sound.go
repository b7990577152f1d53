package indicator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jfreymuth/pulse"
)

const cueSampleRate = 22050

// note is one struck tone of the completion chime. Each note decays
// exponentially and is followed by gap silence.
type note struct {
	hz     float64
	length time.Duration
	gap    time.Duration
	gain   float64
}

// completionChime is a rising fifth (A5 then E6).
var completionChime = []note{
	{hz: 880, length: 70 * time.Millisecond, gap: 18 * time.Millisecond, gain: 0.16},
	{hz: 1318.5, length: 120 * time.Millisecond, gain: 0.16},
}

var completionPCM = renderChime(completionChime)

func newPulseClient() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("translater"),
		pulse.ClientApplicationIconName(toastIcon),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	return client, nil
}

func emitCue(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return playPCM(completionPCM)
}

// playPCM plays mono 16-bit samples on the default sink and blocks until the
// stream drains.
func playPCM(samples []int16) error {
	client, err := newPulseClient()
	if err != nil {
		return err
	}
	defer client.Close()

	remaining := samples
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		n := copy(buf, remaining)
		remaining = remaining[n:]
		if len(remaining) == 0 {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.03),
		pulse.PlaybackMediaName("translation complete"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}
	return nil
}

func renderChime(notes []note) []int16 {
	var pcm []int16
	for _, n := range notes {
		pcm = append(pcm, renderNote(n)...)
		if gap := sampleCount(n.gap); gap > 0 {
			pcm = append(pcm, make([]int16, gap)...)
		}
	}
	return pcm
}

// renderNote synthesizes a sine with a short attack ramp and exponential decay
// that reaches about -40 dB at the end of the note.
func renderNote(n note) []int16 {
	count := sampleCount(n.length)
	if count <= 0 || n.hz <= 0 || n.gain <= 0 {
		return nil
	}

	attack := max(count/20, 1)
	decay := math.Log(100) / float64(count)

	pcm := make([]int16, count)
	for i := range count {
		env := math.Exp(-decay * float64(i))
		if i < attack {
			env *= float64(i) / float64(attack)
		}
		phase := 2 * math.Pi * n.hz * float64(i) / cueSampleRate
		pcm[i] = int16(math.Round(math.Sin(phase) * n.gain * env * math.MaxInt16))
	}
	return pcm
}

func sampleCount(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
