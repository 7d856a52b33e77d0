package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumabeat/lumabeat/internal/bands"
	"github.com/lumabeat/lumabeat/internal/mood"
	"github.com/lumabeat/lumabeat/internal/palette"
	"github.com/lumabeat/lumabeat/internal/pipeline"
)

func sampleSnapshot(tick uint64) pipeline.Snapshot {
	return pipeline.Snapshot{
		Frame:       bands.AnalysisFrame{Bands: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}},
		Mood:        mood.State{Energy: 0.4, Brightness: 0.7, Dynamics: 0.2},
		Palette:     palette.FromMood(mood.State{Energy: 0.4, Brightness: 0.7, Dynamics: 0.2}),
		PaletteName: "mood",
		VisualMode:  "pulse",
		Tick:        tick,
	}
}

func TestStatusReflectsLastSnapshot(t *testing.T) {
	s := NewServer(nil)
	s.Publish(sampleSnapshot(1))

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got wireSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, uint64(1), got.Tick)
	assert.Equal(t, "pulse", got.VisualMode)
	assert.Len(t, got.Bands, 6)
	assert.True(t, strings.HasPrefix(got.Palette.Accent, "#"))
}

func TestPalettesAndModesEndpoints(t *testing.T) {
	ts := httptest.NewServer(NewServer(nil).Handler())
	defer ts.Close()

	var palettes []string
	resp, err := http.Get(ts.URL + "/api/palettes")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&palettes))
	resp.Body.Close()
	assert.Contains(t, palettes, "electronic")

	var modes []string
	resp, err = http.Get(ts.URL + "/api/modes")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&modes))
	resp.Body.Close()
	assert.Equal(t, []string{"orbit", "pulse", "star"}, modes)
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	s := NewServer(nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	// Only every second snapshot goes out on the wire.
	s.Publish(sampleSnapshot(1))
	s.Publish(sampleSnapshot(2))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got wireSnapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, uint64(2), got.Tick)
}
