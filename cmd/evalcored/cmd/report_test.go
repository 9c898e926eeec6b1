package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evalcore/agent/internal/outcome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestReportSinkRecordsInOrder(t *testing.T) {
	r := newReportSink()
	r.record("b1", "h1", "/etc/motd", outcome.Change)
	r.record("b1", "h2", "/etc/hosts", outcome.NoOp)

	assert.Equal(t, int64(2), gjson.Get(r.doc, "#").Int())
	assert.Equal(t, "h1", gjson.Get(r.doc, "0.handle").String())
	assert.Equal(t, "change", gjson.Get(r.doc, "0.outcome").String())
	assert.Equal(t, "noop", gjson.Get(r.doc, "1.outcome").String())
}

func TestReportSinkWriteJSON(t *testing.T) {
	r := newReportSink()
	r.record("b1", "h1", "/etc/motd", outcome.Change)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, r.writeJSON(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b1", gjson.GetBytes(raw, "0.bundle").String())
}
