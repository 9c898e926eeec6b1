package evalctx

import (
	"strconv"
	"testing"

	"github.com/evalcore/agent/internal/persist"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T) *EvalContext {
	t.Helper()
	store := persist.NewMemoryStore()
	return New(DefaultConfig(), store)
}

func TestNewPublishesIdentityHardClasses(t *testing.T) {
	c := newTestContext(t)
	assert.Positive(t, len(c.GlobalClasses.Names()))
	found := false
	for _, n := range c.GlobalClasses.Names() {
		if n == "pid_"+strconv.Itoa(c.Identity.PID) {
			found = true
		}
	}
	assert.True(t, found, "EvalContext.New should publish a pid_<n> hard class")
}

func TestClearDropsClassesAndVariablesAndStack(t *testing.T) {
	c := newTestContext(t)
	c.ClassPutHard("extra", nil)
	c.VariablePutSpecial(0, "somevar", nil, 0, nil, "")
	c.Stack.PushBundle("ns", "b", nil, nil, false)

	c.Clear()

	assert.Equal(t, 0, c.DefVars.Len())
	assert.Equal(t, 0, c.Stack.Len())
	_, ok := c.ClassGet("", "extra")
	assert.False(t, ok)
}

func TestDestroyClearsConfigPaths(t *testing.T) {
	c := newTestContext(t)
	c.SetLaunchDirectory("/var/policy")
	c.SetEntryPoint("/var/policy/main.cf")

	c.Destroy()

	assert.Equal(t, "", c.GetConfig().LaunchDirectory)
	assert.Equal(t, "", c.GetConfig().EntryPoint)
}
