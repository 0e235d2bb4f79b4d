// Package scenario runs the six named scheduler scenarios from spec.md §8
// as data-described test cases, grounded on the teacher's
// conformance/schema.go + conformance/loader.go pair: a YAML file names a
// scenario kind and its parameters; a small Go function per kind builds the
// fake bytecode method, runs it against the real thread/pool packages, and
// checks the result against the YAML file's expect block. Full
// declarative-bytecode-in-YAML was not practical for this domain — the
// thing under test is scheduling and exception dispatch, not a language
// grammar — so each kind is backed by a hand-written runner instead of an
// interpreted instruction list.
package scenario

// Scenario is one YAML-described test case.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Kind        string            `yaml:"kind"`
	Params      map[string]string `yaml:"params,omitempty"`
	Expect      Expectation       `yaml:"expect"`
}

// Expectation is the subset of a Result a scenario file chooses to assert.
// Fields left at their zero value (empty string, false, nil pointer) are
// not checked — see check in scenario_test.go.
type Expectation struct {
	Status             string  `yaml:"status,omitempty"`
	PoolEmpty          bool    `yaml:"pool_empty,omitempty"`
	EmptyCallbackFired bool    `yaml:"empty_callback_fired,omitempty"`
	PC                 *uint32 `yaml:"pc,omitempty"`
	OperandStackSize   *int    `yaml:"operand_stack_size,omitempty"`
	MonitorEntered     *bool   `yaml:"monitor_entered,omitempty"`
	MonitorExited      *bool   `yaml:"monitor_exited,omitempty"`
	NativeDispatched   *bool   `yaml:"native_dispatched,omitempty"`
}
