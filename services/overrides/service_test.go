package overrides

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"leavex-backend/internal/anomaly"
	"leavex-backend/internal/records"
	"leavex-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func statusptr(s records.AccountStatus) *records.AccountStatus { return &s }

func canonicalFixture() []records.CanonicalRecord {
	return []records.CanonicalRecord{
		{Id: "mep_124834", Name: "Jane Doe", Country: "Germany", CountryIso: "DE", UsesX: true, XHandle: "janedoe"},
		{Id: "mep_98765", Name: "John Roe", Country: "France", CountryIso: "FR"},
		{Id: "mep_55555", Name: "Mallory Moe", Country: "Spain", CountryIso: "ES", UsesX: true, XHandle: "mallory"},
	}
}

func TestApplyPrecedence(t *testing.T) {
	report := anomaly.NewReport("overrides")
	enriched := Apply(canonicalFixture(), map[string]records.Override{
		"mep_124834": {
			Status:     statusptr(records.StatusInactive),
			ArchiveUrl: strptr("https://web.archive.org/web/2025/https://x.com/janedoe"),
			Note:       strptr("account dormant since 2024"),
			UpdatedAt:  strptr("2025-11-02"),
		},
	}, report)

	require.True(t, report.Empty())
	require.Len(t, enriched, 3)

	// overridden fields win, untouched fields survive
	jane := enriched[0]
	require.Equal(t, records.StatusInactive, jane.Status)
	require.Equal(t, "account dormant since 2024", jane.Note)
	require.Equal(t, "2025-11-02", jane.UpdatedAt)
	require.Equal(t, "janedoe", jane.XHandle)
	require.True(t, jane.UsesX)

	// records without an override pass through unchanged
	diff := cmp.Diff(
		records.EnrichedRecord{CanonicalRecord: canonicalFixture()[1]},
		enriched[1],
	)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestApplyHandleOverride(t *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedHandle string
		expectedUsesX  bool
		anomalies      int
	}{
		{"bare handle", "newhandle", "newhandle", true, 0},
		{"at-prefixed handle", "@newhandle", "newhandle", true, 0},
		{"full profile url", "https://x.com/newhandle", "newhandle", true, 0},
		{"empty string clears the handle", "", "", false, 0},
		{"url to another site is rejected", "https://facebook.com/someone", "janedoe", true, 1},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			report := anomaly.NewReport("overrides")
			enriched := Apply(canonicalFixture(), map[string]records.Override{
				"mep_124834": {XHandle: strptr(test.value)},
			}, report)

			require.Equal(t, test.expectedHandle, enriched[0].XHandle)
			require.Equal(t, test.expectedUsesX, enriched[0].UsesX)
			require.Len(t, report.Items(), test.anomalies)
		})
	}
}

func TestApplyUnmatchedKey(t *testing.T) {
	report := anomaly.NewReport("overrides")
	enriched := Apply(canonicalFixture(), map[string]records.Override{
		"mep_124835": {Status: statusptr(records.StatusInactive)},
	}, report)

	// exactly one anomaly, no stub record appended
	require.Len(t, enriched, 3)
	items := report.Items()
	require.Len(t, items, 1)
	require.Equal(t, "unmatched_override", items[0].Kind)
	require.Equal(t, "mep_124835", items[0].Key)
	require.Contains(t, items[0].Detail, `"mep_124834"`)

	for _, e := range enriched {
		require.NotEqual(t, "mep_124835", e.Id)
		require.Empty(t, e.Status)
	}
}

func TestApplyInvalidStatus(t *testing.T) {
	report := anomaly.NewReport("overrides")
	enriched := Apply(canonicalFixture(), map[string]records.Override{
		"mep_124834": {Status: statusptr(records.AccountStatus("deleted-ish"))},
	}, report)

	require.Empty(t, enriched[0].Status)
	require.Len(t, report.Items(), 1)
	require.Equal(t, "invalid_status", report.Items()[0].Kind)
}

func TestRunEndToEnd(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/overrides")
	defer cleanup()

	dir := t.TempDir()
	canonicalPath := filepath.Join(dir, "meps_all.json")
	overridesPath := filepath.Join(dir, "meps_overrides.json")
	outputPath := filepath.Join(dir, "meps_enriched.json")

	writeJson := func(path, contents string) {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	}
	writeJson(canonicalPath, `[
		{"id":"mep_124834","name":"Jane Doe","country":"Germany","countryIso":"DE","group":"EPP","party":"CDU","usesX":true,"xHandle":"janedoe"}
	]`)
	writeJson(overridesPath, `{
		"mep_124834": {"status":"inactive"}
	}`)

	result, err := Run(context.Background(), Options{
		CanonicalPath: canonicalPath,
		OverridesPath: overridesPath,
		OutputPath:    outputPath,
	})
	require.NoError(t, err)
	require.True(t, result.Anomalies.Empty())

	require.Len(t, result.Records, 1)
	require.Equal(t, records.StatusInactive, result.Records[0].Status)
	require.Equal(t, "janedoe", result.Records[0].XHandle)
	require.True(t, result.Records[0].UsesX)

	written, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Contains(t, string(written), `"status": "inactive"`)
	require.Contains(t, string(written), `"xHandle": "janedoe"`)
}

func TestRunMissingInputsAreFatal(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/overrides")
	defer cleanup()

	dir := t.TempDir()
	_, err := Run(context.Background(), Options{
		CanonicalPath: filepath.Join(dir, "missing.json"),
		OverridesPath: filepath.Join(dir, "missing_too.json"),
	})
	require.Error(t, err)
}
