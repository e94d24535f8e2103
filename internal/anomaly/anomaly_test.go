package anomaly

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	report := NewReport("normalizer")
	require.True(t, report.Empty())

	report.Add("unmapped_country", "mep_1", "no ISO code for \"Atlantis\"")
	report.Add("malformed_handle", "mep_2", "cannot derive a handle from \"https://x.com/home\"")

	require.False(t, report.Empty())
	require.Len(t, report.Items(), 2)
	require.Equal(t, "unmapped_country", report.Items()[0].Kind)
}

func TestRenderEmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	NewReport("collector").Render(&buf)
	require.Zero(t, buf.Len())
}

func TestRenderIncludesStageAndKeys(t *testing.T) {
	report := NewReport("overrides")
	report.Add("unmatched_override", "mep_999999", "no canonical record with this id")

	var buf bytes.Buffer
	report.Render(&buf)

	out := buf.String()
	require.Contains(t, out, "anomalies: overrides")
	require.Contains(t, out, "unmatched_override")
	require.Contains(t, out, "mep_999999")
}
