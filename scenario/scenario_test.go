package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/types"
)

func statusFromName(name string) (types.Status, bool) {
	all := []types.Status{
		types.New, types.Runnable, types.Running, types.Blocked, types.Waiting,
		types.TimedWaiting, types.UninterruptablyBlocked, types.AsyncWaiting,
		types.Parked, types.Terminated,
	}
	for _, s := range all {
		if s.String() == name {
			return s, true
		}
	}
	return types.New, false
}

// check asserts only the fields an Expectation actually names, matching
// the teacher's Expectation semantics where absent fields impose no
// constraint.
func check(t *testing.T, exp Expectation, got Result) {
	t.Helper()

	if exp.Status != "" {
		want, ok := statusFromName(exp.Status)
		require.True(t, ok, "unknown status name %q in expect block", exp.Status)
		assert.Equal(t, want, got.Status, "status")
	}
	if exp.PoolEmpty {
		assert.True(t, got.PoolEmpty, "pool_empty")
	}
	if exp.EmptyCallbackFired {
		assert.True(t, got.EmptyCallbackFired, "empty_callback_fired")
	}
	if exp.PC != nil {
		assert.Equal(t, *exp.PC, got.PC, "pc")
	}
	if exp.OperandStackSize != nil {
		assert.Equal(t, *exp.OperandStackSize, got.OperandStackSize, "operand_stack_size")
	}
	if exp.MonitorEntered != nil {
		assert.Equal(t, *exp.MonitorEntered, got.MonitorEntered, "monitor_entered")
	}
	if exp.MonitorExited != nil {
		assert.Equal(t, *exp.MonitorExited, got.MonitorExited, "monitor_exited")
	}
	if exp.NativeDispatched != nil {
		assert.Equal(t, *exp.NativeDispatched, got.NativeDispatched, "native_dispatched")
	}
}

func TestScenarios(t *testing.T) {
	loaded, err := LoadAll("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, loaded)

	for _, ls := range loaded {
		ls := ls
		t.Run(ls.Scenario.Name, func(t *testing.T) {
			got, err := Run(ls.Scenario)
			require.NoError(t, err, "file %s", ls.File)
			check(t, ls.Scenario.Expect, got)
		})
	}
}

// TestScenarios_CoversAllSixNamedScenarios guards against a fixture being
// silently dropped: spec.md §8 names exactly six scenarios.
func TestScenarios_CoversAllSixNamedScenarios(t *testing.T) {
	loaded, err := LoadAll("testdata/scenarios")
	require.NoError(t, err)

	wantKinds := map[string]bool{
		"synchronized_uncontested":   false,
		"exception_caught_resolved":  false,
		"exception_unresolved_async": false,
		"uncaught_exception":         false,
		"park_unpark_prior_unpark":   false,
		"resurrection":               false,
	}
	for _, ls := range loaded {
		wantKinds[ls.Scenario.Kind] = true
	}
	for kind, seen := range wantKinds {
		assert.True(t, seen, "missing fixture for scenario kind %q", kind)
	}
}
