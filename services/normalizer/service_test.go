package normalizer

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

func TestNormalizeRecord(t *testing.T) {
	testCases := []struct {
		name      string
		raw       records.RawRecord
		expected  records.CanonicalRecord
		anomalies int
	}{
		{
			name: "well formed record with profile url",
			raw: records.RawRecord{
				MepId:   "124834",
				Name:    "  Jane   Doe ",
				Country: "Germany",
				Email:   "jane.doe@europarl.europa.eu",
				Group:   "Group of the European People's Party (Christian Democrats)",
				Party:   " Christlich Demokratische  Union ",
				XUrl:    "https://x.com/janedoe",
			},
			expected: records.CanonicalRecord{
				Id:         "mep_124834",
				Name:       "Jane Doe",
				Country:    "Germany",
				CountryIso: "DE",
				Group:      "EPP",
				Party:      "Christlich Demokratische Union",
				UsesX:      true,
				XHandle:    "janedoe",
			},
		},
		{
			name: "no profile url means no usage",
			raw:  records.RawRecord{MepId: "1", Name: "John Roe", Country: "France"},
			expected: records.CanonicalRecord{
				Id:         "mep_1",
				Name:       "John Roe",
				Country:    "France",
				CountryIso: "FR",
			},
		},
		{
			name: "query string is stripped from the handle",
			raw:  records.RawRecord{MepId: "2", Name: "A", Country: "Spain", XUrl: "https://twitter.com/someone?lang=en"},
			expected: records.CanonicalRecord{
				Id: "mep_2", Name: "A", Country: "Spain", CountryIso: "ES",
				UsesX: true, XHandle: "someone",
			},
		},
		{
			name: "intent link carries the handle in the query",
			raw:  records.RawRecord{MepId: "3", Name: "B", Country: "Italy", XUrl: "https://twitter.com/intent/user?screen_name=someone"},
			expected: records.CanonicalRecord{
				Id: "mep_3", Name: "B", Country: "Italy", CountryIso: "IT",
				UsesX: true, XHandle: "someone",
			},
		},
		{
			name:      "placeholder path is rejected",
			raw:       records.RawRecord{MepId: "4", Name: "C", Country: "Poland", XUrl: "https://x.com/home"},
			expected:  records.CanonicalRecord{Id: "mep_4", Name: "C", Country: "Poland", CountryIso: "PL"},
			anomalies: 1,
		},
		{
			name:      "link on a foreign host is rejected",
			raw:       records.RawRecord{MepId: "8", Name: "F", Country: "Austria", XUrl: "https://facebook.com/janedoe"},
			expected:  records.CanonicalRecord{Id: "mep_8", Name: "F", Country: "Austria", CountryIso: "AT"},
			anomalies: 1,
		},
		{
			name:      "overlong handle is rejected",
			raw:       records.RawRecord{MepId: "5", Name: "D", Country: "Malta", XUrl: "https://x.com/this_handle_is_way_too_long"},
			expected:  records.CanonicalRecord{Id: "mep_5", Name: "D", Country: "Malta", CountryIso: "MT"},
			anomalies: 1,
		},
		{
			name: "country lookup tolerates case and spacing drift",
			raw:  records.RawRecord{MepId: "9", Name: "G", Country: " czech  republic "},
			expected: records.CanonicalRecord{
				Id: "mep_9", Name: "G", Country: "czech republic", CountryIso: "CZ",
			},
		},
		{
			name:      "unmapped country is kept raw",
			raw:       records.RawRecord{MepId: "6", Name: "E", Country: "Atlantis"},
			expected:  records.CanonicalRecord{Id: "mep_6", Name: "E", Country: "Atlantis"},
			anomalies: 1,
		},
		{
			name:      "breadcrumb prefix is stripped from the name",
			raw:       records.RawRecord{MepId: "7", Name: "Home Jane Doe", Country: "Sweden"},
			expected:  records.CanonicalRecord{Id: "mep_7", Name: "Jane Doe", Country: "Sweden", CountryIso: "SE"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			report := anomaly.NewReport("normalizer")
			got := normalizeRecord(test.raw, report)
			diff := cmp.Diff(test.expected, got)
			if diff != "" {
				t.Fatal(diff)
			}
			require.Len(t, report.Items(), test.anomalies)

			// the usage flag and the handle move together
			if got.XHandle != "" {
				require.True(t, got.UsesX)
			}
			if !got.UsesX {
				require.Empty(t, got.XHandle)
			}
		})
	}
}

func TestRunIdempotent(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/normalizer")
	defer cleanup()

	dir := t.TempDir()
	input := filepath.Join(dir, "meps_all.csv")
	err := records.WriteCsv(input, []records.RawRecord{
		{MepId: "124834", Name: "Jane Doe", Country: "Germany", Group: "Renew Europe Group", XUrl: "https://x.com/janedoe"},
		{MepId: "98765", Name: "John Roe", Country: "France"},
	})
	require.NoError(t, err)

	output := filepath.Join(dir, "meps_all.json")
	_, err = Run(context.Background(), Options{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	_, err = Run(context.Background(), Options{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	require.Equal(t, first, second, "two runs over the same artifact must be byte-identical")
}

func TestRunMissingInputIsFatal(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:services/normalizer")
	defer cleanup()

	_, err := Run(context.Background(), Options{InputPath: filepath.Join(t.TempDir(), "nope.csv")})
	require.Error(t, err)
}
