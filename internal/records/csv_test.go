package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCsvRoundTrip(t *testing.T) {
	rows := []RawRecord{
		{
			MepId:   "124834",
			Name:    "Jane DOE",
			Country: "Austria",
			Email:   "jane.doe@europarl.europa.eu",
			Group:   "Group of the European People's Party (Christian Democrats)",
			Party:   "Österreichische Volkspartei",
			XUrl:    "https://x.com/janedoe",
		},
		{
			MepId:   "97331",
			Name:    "John SMITH",
			Country: "Ireland",
			Group:   "Renew Europe Group",
		},
	}

	path := filepath.Join(t.TempDir(), "meps_all.csv")
	err := WriteCsv(path, rows)
	require.NoError(t, err)

	got, err := ReadCsv(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(rows, got))
}

func TestCsvDelimiter(t *testing.T) {
	rows := []RawRecord{{
		MepId:   "1",
		Name:    "Jane DOE",
		Country: "Austria",
		Group:   "Progressive Alliance of Socialists, Democrats",
	}}

	path := filepath.Join(t.TempDir(), "meps_all.csv")
	err := WriteCsv(path, rows)
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "mep_id;name;country;email;group;party;x_url", lines[0])
	// the comma inside the group name must not require quoting
	require.Equal(t, "1;Jane DOE;Austria;;Progressive Alliance of Socialists, Democrats;;", lines[1])
}

func TestReadCsvRejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	err := os.WriteFile(path, []byte("id;label\n1;x\n"), 0o644)
	require.NoError(t, err)

	_, err = ReadCsv(path)
	require.Error(t, err)
}
