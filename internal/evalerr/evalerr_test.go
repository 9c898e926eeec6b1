package evalerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsWithOptionalContext(t *testing.T) {
	err := New(UnknownReference, "no such variable %q", "X").
		WithReference("def.X").
		WithPromise("h1").
		WithBundle("b")

	msg := err.Error()
	assert.Contains(t, msg, "unknown reference")
	assert.Contains(t, msg, `no such variable "X"`)
	assert.Contains(t, msg, `reference "def.X"`)
	assert.Contains(t, msg, `promise "h1"`)
	assert.Contains(t, msg, `bundle "b"`)
}

func TestKindStringUnknownForOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown error kind", Kind(255).String())
}

func TestRaisePanicsWithContractViolation(t *testing.T) {
	defer func() {
		r := recover()
		cv, ok := r.(ContractViolation)
		assert.True(t, ok)
		assert.Equal(t, "stack-pop", cv.Operation)
		assert.Contains(t, cv.Error(), "stack-pop")
	}()
	Raise("stack-pop", "pop of empty stack")
}
