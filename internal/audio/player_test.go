package audio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVoice struct {
	mu      sync.Mutex
	playing bool
	closed  bool
}

func (v *fakeVoice) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = true
}

func (v *fakeVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *fakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
	v.closed = true
	return nil
}

// finish simulates the voice draining naturally.
func (v *fakeVoice) finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

func (v *fakeVoice) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

type fakeDevice struct {
	mu        sync.Mutex
	voices    []*fakeVoice
	resumeErr error
	resumes   int
	closed    bool
}

func (d *fakeDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resumes++
	return d.resumeErr
}

func (d *fakeDevice) NewVoice(buf *Buffer) (Voice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := &fakeVoice{}
	d.voices = append(d.voices, v)
	return v, nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func newTestPlayer(t *testing.T) (*Player, *fakeDevice, chan string) {
	t.Helper()
	device := &fakeDevice{}
	player := NewPlayer(device)
	player.interval = time.Millisecond

	completed := make(chan string, 4)
	player.OnCompleted(func(id string) { completed <- id })
	return player, device, completed
}

func testBuffer() *Buffer {
	return &Buffer{Samples: make([]float32, 2400), SampleRate: DefaultSampleRate}
}

func waitCompleted(t *testing.T, completed chan string) string {
	t.Helper()
	select {
	case id := <-completed:
		return id
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for completion")
		return ""
	}
}

func assertNoCompletion(t *testing.T, completed chan string) {
	t.Helper()
	select {
	case id := <-completed:
		t.Fatalf("unexpected completion for %q", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlayer_NaturalCompletion(t *testing.T) {
	player, device, completed := newTestPlayer(t)

	require.NoError(t, player.Play(testBuffer(), "msg-1"))
	id, ok := player.Playing()
	assert.True(t, ok)
	assert.Equal(t, "msg-1", id)

	device.voices[0].finish()
	assert.Equal(t, "msg-1", waitCompleted(t, completed))
	assertNoCompletion(t, completed)

	_, ok = player.Playing()
	assert.False(t, ok)
}

func TestPlayer_PlayPreemptsActiveSession(t *testing.T) {
	player, device, completed := newTestPlayer(t)

	require.NoError(t, player.Play(testBuffer(), "msg-a"))
	require.NoError(t, player.Play(testBuffer(), "msg-b"))

	// A's resource was released before B started, and A never completes.
	assert.True(t, device.voices[0].isClosed())
	assert.True(t, device.voices[1].IsPlaying())

	device.voices[1].finish()
	assert.Equal(t, "msg-b", waitCompleted(t, completed))
	assertNoCompletion(t, completed)
}

func TestPlayer_StopDoesNotFireCompletion(t *testing.T) {
	player, device, completed := newTestPlayer(t)

	require.NoError(t, player.Play(testBuffer(), "msg-1"))
	player.Stop()

	assert.True(t, device.voices[0].isClosed())
	assertNoCompletion(t, completed)

	_, ok := player.Playing()
	assert.False(t, ok)

	// A subsequent play may proceed.
	require.NoError(t, player.Play(testBuffer(), "msg-2"))
	device.voices[1].finish()
	assert.Equal(t, "msg-2", waitCompleted(t, completed))
}

func TestPlayer_StopWithoutSessionIsNoop(t *testing.T) {
	player, _, completed := newTestPlayer(t)
	player.Stop()
	assertNoCompletion(t, completed)
}

func TestPlayer_ReplaySameMessageKeepsResource(t *testing.T) {
	player, device, _ := newTestPlayer(t)

	var starts []string
	player.OnStarted(func(id string) { starts = append(starts, id) })

	require.NoError(t, player.Play(testBuffer(), "msg-1"))
	require.NoError(t, player.Play(testBuffer(), "msg-1"))

	assert.Len(t, device.voices, 1)
	assert.False(t, device.voices[0].isClosed())
	assert.Equal(t, []string{"msg-1", "msg-1"}, starts)
}

func TestPlayer_ResumeFailureIsBestEffort(t *testing.T) {
	player, device, completed := newTestPlayer(t)
	device.resumeErr = errors.New("output device suspended")

	require.NoError(t, player.Play(testBuffer(), "msg-1"))
	device.voices[0].finish()
	assert.Equal(t, "msg-1", waitCompleted(t, completed))
}

func TestPlayer_Close(t *testing.T) {
	player, device, completed := newTestPlayer(t)

	require.NoError(t, player.Play(testBuffer(), "msg-1"))
	require.NoError(t, player.Close())

	assert.True(t, device.closed)
	assertNoCompletion(t, completed)
}
