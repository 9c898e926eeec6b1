package cmd

import (
	"fmt"
	"os"

	"github.com/evalcore/agent/internal/outcome"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// reportSink accumulates one JSON record per promise outcome, built
// incrementally with tidwall/gjson and tidwall/sjson the way
// internal/values.Container uses the same pair for its own JSON
// projection (spec §4.1), rather than round-tripping through
// encoding/json structs.
type reportSink struct {
	doc string
}

func newReportSink() *reportSink {
	return &reportSink{doc: "[]"}
}

func (r *reportSink) record(bundle, handle, promiser string, status outcome.Status) {
	base := fmt.Sprintf("%d", int(gjson.Get(r.doc, "#").Int()))
	doc := r.doc
	for _, set := range [][2]string{
		{base + ".bundle", bundle},
		{base + ".handle", handle},
		{base + ".promiser", promiser},
		{base + ".outcome", status.String()},
	} {
		updated, err := sjson.Set(doc, set[0], set[1])
		if err != nil {
			return
		}
		doc = updated
	}
	r.doc = doc
}

func (r *reportSink) writeJSON(path string) error {
	return os.WriteFile(path, []byte(r.doc), 0o644)
}
