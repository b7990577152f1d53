package indicator

import (
	"reflect"
	"sort"
	"testing"

	pulseproto "github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/require"
)

func TestCueSink(t *testing.T) {
	tests := []struct {
		name    string
		sinks   []Sink
		wantID  string
		wantErr string
	}{
		{name: "none", wantErr: "no audio output sinks"},
		{
			name: "default available",
			sinks: []Sink{
				{ID: "hdmi", Available: true},
				{ID: "speakers", Available: true, Default: true},
			},
			wantID: "speakers",
		},
		{name: "default muted", sinks: []Sink{{ID: "speakers", Available: true, Muted: true, Default: true}}, wantErr: "muted"},
		{name: "default unplugged", sinks: []Sink{{ID: "headset", Default: true}}, wantErr: "not available"},
		{name: "no default", sinks: []Sink{{ID: "hdmi", Available: true}}, wantErr: "default audio sink is unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sink, err := CueSink(tc.sinks)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantID, sink.ID)
		})
	}
}

func TestSinkAvailableFollowsActivePort(t *testing.T) {
	info := &pulseproto.GetSinkInfoReply{ActivePortName: "analog-output-headphones"}
	setSinkPorts(t, info, map[string]uint32{
		"analog-output-speaker":    2,
		"analog-output-headphones": 1,
	})
	require.False(t, sinkAvailable(info))

	info.ActivePortName = "analog-output-speaker"
	require.True(t, sinkAvailable(info))

	require.True(t, sinkAvailable(&pulseproto.GetSinkInfoReply{}))
	require.False(t, sinkAvailable(nil))
}

func TestSinkStateString(t *testing.T) {
	require.Equal(t, "running", sinkStateString(0))
	require.Equal(t, "idle", sinkStateString(1))
	require.Equal(t, "suspended", sinkStateString(2))
	require.Equal(t, "unknown(99)", sinkStateString(99))
}

// setSinkPorts fills the reply's port list, whose element type is an
// unexported struct in the pulse proto package.
func setSinkPorts(t *testing.T, info *pulseproto.GetSinkInfoReply, availability map[string]uint32) {
	t.Helper()

	names := make([]string, 0, len(availability))
	for name := range availability {
		names = append(names, name)
	}
	sort.Strings(names)

	ports := reflect.MakeSlice(reflect.TypeOf(info.Ports), len(names), len(names))
	for i, name := range names {
		port := ports.Index(i)
		port.FieldByName("Name").SetString(name)
		port.FieldByName("Available").SetUint(uint64(availability[name]))
	}
	reflect.ValueOf(info).Elem().FieldByName("Ports").Set(ports)
}
