package indicator

import (
	"context"
	"errors"
	"fmt"

	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Sink describes one Pulse output the completion cue can play through.
type Sink struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// ListSinks returns Pulse output sinks with default/availability metadata.
func ListSinks(_ context.Context) ([]Sink, error) {
	client, err := newPulseClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	defaultSink, err := client.DefaultSink()
	if err != nil {
		return nil, fmt.Errorf("read default sink: %w", err)
	}
	defaultID := defaultSink.ID()

	var infos pulseproto.GetSinkInfoListReply
	if err := client.RawRequest(&pulseproto.GetSinkInfoList{}, &infos); err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}

	sinks := make([]Sink, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		sinks = append(sinks, Sink{
			ID:          info.SinkName,
			Description: info.Device,
			State:       sinkStateString(info.State),
			Available:   sinkAvailable(info),
			Muted:       info.Mute,
			Default:     info.SinkName == defaultID,
		})
	}
	return sinks, nil
}

// CueSink returns the sink the cue will reach: the default sink when it is
// available and unmuted.
func CueSink(sinks []Sink) (Sink, error) {
	if len(sinks) == 0 {
		return Sink{}, errors.New("no audio output sinks found")
	}
	for _, sink := range sinks {
		if !sink.Default {
			continue
		}
		switch {
		case sink.Muted:
			return sink, fmt.Errorf("default sink %q is muted", sink.ID)
		case !sink.Available:
			return sink, fmt.Errorf("default sink %q is not available", sink.ID)
		}
		return sink, nil
	}
	return Sink{}, errors.New("default audio sink is unavailable")
}

// sinkStateString maps Pulse sink state constants to human-readable values.
func sinkStateString(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// sinkAvailable maps the active port's availability to a boolean.
func sinkAvailable(info *pulseproto.GetSinkInfoReply) bool {
	if info == nil {
		return false
	}
	for _, port := range info.Ports {
		if port.Name != info.ActivePortName {
			continue
		}
		// PulseAudio values: unknown=0, no=1, yes=2.
		return port.Available == 0 || port.Available == 2
	}
	return true
}
