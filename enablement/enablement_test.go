package enablement

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/furry-a11y/dispatch"
)

type recordingToggler struct {
	calls []bool
}

func (r *recordingToggler) SetNativeEnabled(enabled bool) {
	r.calls = append(r.calls, enabled)
}

func TestTouchRequiresPlatform(t *testing.T) {
	s := New(nil)
	s.SetPlatformState(false, true)
	assert.False(t, s.TouchExplorationEnabled())
	assert.False(t, s.Enabled())

	s.SetPlatformState(true, true)
	assert.True(t, s.PlatformEnabled())
	assert.Equal(t, Snapshot{Enabled: true, TouchEnabled: true}, s.Snapshot())
}

func TestForcePref(t *testing.T) {
	s := New(nil)
	s.SetForcePref(-1)
	assert.Equal(t, Snapshot{Enabled: true, TouchEnabled: true}, s.Snapshot())
	assert.False(t, s.PlatformEnabled())

	s.SetForcePref(0)
	assert.Equal(t, Snapshot{}, s.Snapshot())

	s.SetForcePref(1)
	assert.False(t, s.Enabled())
}

func TestSubscribeBothSides(t *testing.T) {
	s := New(nil)
	var engine, ui []Snapshot
	unsubEngine := s.Subscribe(SideEngine, nil, func(snap Snapshot) { engine = append(engine, snap) })
	s.Subscribe(SideUI, nil, func(snap Snapshot) { ui = append(ui, snap) })

	s.SetPlatformState(true, false)
	require.Len(t, engine, 1)
	require.Len(t, ui, 1)
	assert.Equal(t, Snapshot{Enabled: true}, engine[0])

	// No change, no notification.
	s.SetPlatformState(true, false)
	assert.Len(t, ui, 1)

	unsubEngine()
	unsubEngine()
	s.Refresh()
	assert.Len(t, engine, 1)
	assert.Len(t, ui, 2)
}

func TestSubscribeUsesScheduler(t *testing.T) {
	s := New(nil)
	queue := dispatch.NewQueue()
	var got []Snapshot
	s.Subscribe(SideUI, queue, func(snap Snapshot) { got = append(got, snap) })

	s.SetForcePref(-1)
	assert.Empty(t, got)
	assert.Equal(t, 1, queue.Flush())
	assert.Equal(t, []Snapshot{{Enabled: true, TouchEnabled: true}}, got)
}

func TestToggleDeferredUntilProfileReady(t *testing.T) {
	s := New(nil)
	toggler := &recordingToggler{}
	s.SetToggler(toggler)

	s.SetPlatformState(true, false)
	s.SetPlatformState(false, false)
	s.SetForcePref(-1)
	assert.Empty(t, toggler.calls)

	s.SetEngineState(StateLaunched)
	assert.Empty(t, toggler.calls)

	s.SetEngineState(StateProfileReady)
	assert.Equal(t, []bool{true}, toggler.calls)

	// The slot is drained once.
	s.SetEngineState(StateRunning)
	assert.Equal(t, []bool{true}, toggler.calls)

	s.SetForcePref(0)
	assert.Equal(t, []bool{true, false}, toggler.calls)
}

func TestPendingToggleLatestWins(t *testing.T) {
	s := New(nil)
	var calls []bool
	s.SetToggler(TogglerFunc(func(enabled bool) { calls = append(calls, enabled) }))

	s.SetForcePref(-1)
	s.SetForcePref(0)
	s.SetEngineState(StateRunning)
	assert.Equal(t, []bool{false}, calls)
}

func TestLateTogglerReplaysPending(t *testing.T) {
	s := New(nil)
	s.SetPlatformState(true, false)
	s.SetEngineState(StateProfileReady)

	toggler := &recordingToggler{}
	s.SetToggler(toggler)
	assert.Equal(t, []bool{true}, toggler.calls)

	s.SetEngineState(StateRunning)
	assert.Equal(t, []bool{true}, toggler.calls)
}

func TestPendingSurvivesReadyWithoutToggler(t *testing.T) {
	s := New(nil)
	s.SetForcePref(-1)
	s.SetEngineState(StateProfileReady)
	s.SetEngineState(StateRunning)

	var calls []bool
	s.SetToggler(TogglerFunc(func(enabled bool) { calls = append(calls, enabled) }))
	assert.Equal(t, []bool{true}, calls)
}

func TestTogglerBeforeReadyWaits(t *testing.T) {
	s := New(nil)
	s.SetPlatformState(true, false)
	toggler := &recordingToggler{}
	s.SetToggler(toggler)
	assert.Empty(t, toggler.calls)

	s.SetEngineState(StateProfileReady)
	assert.Equal(t, []bool{true}, toggler.calls)
}

func TestConcurrentTogglesEndOnLatestState(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		s := New(nil)
		s.SetEngineState(StateRunning)
		var mu sync.Mutex
		var last bool
		s.SetToggler(TogglerFunc(func(enabled bool) {
			mu.Lock()
			last = enabled
			mu.Unlock()
		}))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				s.SetPlatformState(i%2 == 0, false)
			}(i)
			go func(i int) {
				defer wg.Done()
				s.SetForcePref(i % 2)
			}(i)
		}
		wg.Wait()
		s.SetForcePref(0)

		mu.Lock()
		got := last
		mu.Unlock()
		require.Equal(t, s.Enabled(), got, "trial %d", trial)
	}
}

func TestSubscribersRunInOrder(t *testing.T) {
	s := New(nil)
	var order []int
	unsubs := make([]func(), 0, 6)
	for i := 0; i < 6; i++ {
		unsubs = append(unsubs, s.Subscribe(SideUI, nil, func(Snapshot) { order = append(order, i) }))
	}
	unsubs[2]()

	s.Refresh()
	s.Refresh()
	assert.Equal(t, []int{0, 1, 3, 4, 5, 0, 1, 3, 4, 5}, order)
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestNilSettings(t *testing.T) {
	var s *Settings
	s.SetPlatformState(true, true)
	s.Refresh()
	assert.Equal(t, Snapshot{}, s.Snapshot())
	assert.Equal(t, StateInitial, s.EngineState())
	s.Subscribe(SideUI, nil, func(Snapshot) {})()
}
