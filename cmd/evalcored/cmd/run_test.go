package cmd

import (
	"testing"

	"github.com/evalcore/agent/internal/outcome"
	"github.com/evalcore/agent/internal/persist"
	"github.com/evalcore/agent/pkg/evalctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testMemoryStore(t *testing.T) persist.Store {
	t.Helper()
	return persist.NewMemoryStore()
}

func TestEvalBundleAppliesEachPromiseAndPopsCleanly(t *testing.T) {
	ctx := evalctx.New(evalctx.DefaultConfig(), testMemoryStore(t))
	report := newReportSink()

	err := evalBundle(ctx, samplePolicy.Bundles[0], report)

	require.NoError(t, err)
	assert.Equal(t, 0, ctx.Stack.Len())
	assert.True(t, ctx.IsDefinedClass("motd_updated"))
}

func TestEvalPromiseWarnActionNeverAppliesChange(t *testing.T) {
	ctx := evalctx.New(evalctx.DefaultConfig(), testMemoryStore(t))
	ctx.Stack.PushBundle("default", "b", nil, nil, false)
	ctx.Stack.PushBundleSection("methods")
	report := newReportSink()

	p := promiseSpec{Handle: "h1", Promiser: "/etc/x", Type: "files", Action: "warn"}
	evalPromise(ctx, bundleSpec{Namespace: "default", Name: "b"}, p, report)

	assert.Equal(t, int64(1), gjson.Get(report.doc, "#").Int())
	assert.Equal(t, outcome.NoOp.String(), gjson.Get(report.doc, "0.outcome").String())
}
