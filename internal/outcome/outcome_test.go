package outcome

import (
	"log/slog"
	"testing"

	"github.com/evalcore/agent/internal/classes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	reports []Status
}

func (f *fakeTracker) Report(promise Promise, status Status) {
	f.reports = append(f.reports, status)
}

type fakeHandles struct {
	satisfied map[string]struct{}
}

func newFakeHandles() *fakeHandles { return &fakeHandles{satisfied: map[string]struct{}{}} }
func (f *fakeHandles) Satisfy(handle string) { f.satisfied[handle] = struct{}{} }

func newTestSink() (ClassSink, *classes.Table, *classes.Table) {
	global := classes.NewTable()
	local := classes.NewTable()
	return ClassSink{Global: global, Local: local}, global, local
}

func TestApplySkippedIsNoOp(t *testing.T) {
	sink, global, _ := newTestSink()
	tracker := &fakeTracker{}
	p := New(tracker, newFakeHandles(), slog.Default())

	promise := Promise{Type: "files", Classes: ClassActions{Kept: []string{"irrelevant"}}}
	p.Apply(promise, Skipped, sink, nil)

	assert.Empty(t, tracker.reports)
	assert.Equal(t, 0, global.Len())
	assert.Equal(t, Counters{}, p.Counters)
}

func TestApplyChangeAddsRepairedClass(t *testing.T) {
	sink, _, local := newTestSink()
	handles := newFakeHandles()
	p := New(&fakeTracker{}, handles, slog.Default())

	promise := Promise{
		Type:      "files",
		Handle:    "h1",
		Namespace: "default",
		Classes:   ClassActions{Repaired: []string{"fixed_it"}},
	}
	p.Apply(promise, Change, sink, nil)

	_, ok := local.Get("default", "fixed_it")
	assert.True(t, ok)
	assert.Equal(t, 1, p.Counters.Repaired)
	_, satisfied := handles.satisfied["h1"]
	assert.True(t, satisfied, "change outcome with a handle must satisfy it")
}

func TestApplyNoOpDoesNotDoubleInsert(t *testing.T) {
	sink, _, local := newTestSink()
	p := New(&fakeTracker{}, newFakeHandles(), slog.Default())

	promise := Promise{Type: "files", Namespace: "default", Classes: ClassActions{Kept: []string{"already_good"}}}
	p.Apply(promise, NoOp, sink, nil)
	p.Apply(promise, NoOp, sink, nil)

	assert.Equal(t, 1, local.Len())
}

func TestApplyBookkeepingExemptSkipsCountersAndTracker(t *testing.T) {
	sink, _, _ := newTestSink()
	tracker := &fakeTracker{}
	p := New(tracker, newFakeHandles(), slog.Default())

	promise := Promise{Type: "vars", Namespace: "default"}
	p.Apply(promise, Change, sink, nil)

	assert.Empty(t, tracker.reports)
	assert.Equal(t, Counters{}, p.Counters)
}

func TestApplyReservedHardClassNotAdded(t *testing.T) {
	sink, _, local := newTestSink()
	p := New(&fakeTracker{}, newFakeHandles(), slog.Default())
	p.SetReservedHard([]string{"linux"})

	promise := Promise{Type: "files", Namespace: "default", Classes: ClassActions{Repaired: []string{"linux"}}}
	p.Apply(promise, Change, sink, nil)

	_, ok := local.Get("default", "linux")
	assert.False(t, ok)
}

func TestApplyPersistTTLPromotesToNamespaceScope(t *testing.T) {
	sink, global, local := newTestSink()
	p := New(&fakeTracker{}, newFakeHandles(), slog.Default())

	var persistedName string
	var persistedTTL int
	promise := Promise{
		Type:       "files",
		Namespace:  "default",
		Classes:    ClassActions{Repaired: []string{"survives_restart"}},
		PersistTTL: 60,
	}
	p.Apply(promise, Change, sink, func(name string, ttl int, tags []string) {
		persistedName, persistedTTL = name, ttl
	})

	_, inLocal := local.Get("default", "survives_restart")
	assert.False(t, inLocal, "persist-ttl promotes the class to namespace scope even with a local sink available")
	_, inGlobal := global.GetScoped("default", "survives_restart", classes.ScopeNamespace)
	assert.True(t, inGlobal)
	assert.Equal(t, "survives_restart", persistedName)
	assert.Equal(t, 60, persistedTTL)
}

func TestDryRunGateWarnsInDryRunMode(t *testing.T) {
	g := Gate{Mode: ModeDryRun}
	would, status, msg := g.WouldMakeChanges(ActionFix, "update the config file")
	assert.False(t, would)
	require.NotNil(t, status)
	assert.Equal(t, Warn, *status)
	assert.Contains(t, msg, "only warning promised")
}

func TestDryRunGateAllowsEnforcingFix(t *testing.T) {
	g := Gate{Mode: ModeEnforcing}
	would, status, _ := g.WouldMakeChanges(ActionFix, "update the config file")
	assert.True(t, would)
	assert.Nil(t, status)
}

func TestDryRunGateWarnActionNeverMakesChanges(t *testing.T) {
	g := Gate{Mode: ModeEnforcing}
	would, status, _ := g.WouldMakeChanges(ActionWarn, "update the config file")
	assert.False(t, would)
	require.NotNil(t, status)
}
