package ingest

import (
	"testing"

	"adsdash/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadHeader = []string{"DATA / HORA", "ORIGEM", "CAMPANHA", "CONJUNTO DE ANÚNCIOS", "NOME"}

func TestBuildLeadTable(t *testing.T) {
	rows := [][]string{
		{"2025-08-11T10:57:25.000Z", "Busca paga | Facebook Ads", "FGTS - Revisão", "LOOKALIKE | 1%", "Ana"},
		{"11/08/2025", "Busca paga | Google Ads", "Revisão FGTS", "", "Bruno"},
		{"", "", "", "", "Carla"},
		{"", "", "", "", ""}, // all blank: dropped
	}

	recs := BuildLeadTable(leadHeader, rows)
	require.Len(t, recs, 3)

	assert.Equal(t, core.MetaAds, recs[0].Platform)
	assert.Equal(t, "FGTS - Revisão", recs[0].Campaign)
	assert.Equal(t, "LOOKALIKE | 1%", recs[0].AdSet)
	require.NotNil(t, recs[0].Timestamp)
	require.NotNil(t, recs[1].Timestamp)
	assert.True(t, core.DayOf(*recs[0].Timestamp).Equal(core.DayOf(*recs[1].Timestamp)),
		"ISO and day-first forms of the same day must agree on the date")

	assert.Equal(t, core.GoogleAds, recs[1].Platform)

	// Empty origin cell is Unknown, and a missing date stays nil.
	assert.Equal(t, core.Unknown, recs[2].Platform)
	assert.Nil(t, recs[2].Timestamp)
}

func TestBuildLeadTableAliasFallback(t *testing.T) {
	header := []string{"data_hora", "source", "campaign"}
	rows := [][]string{{"01/02/2024", "instagram", "Campanha X"}}

	recs := BuildLeadTable(header, rows)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Timestamp)
	assert.Equal(t, 1, recs[0].Timestamp.Day())
	assert.Equal(t, core.MetaAds, recs[0].Platform)
	assert.Equal(t, "Campanha X", recs[0].Campaign)
}

func TestBuildLeadTableNoKnownColumns(t *testing.T) {
	header := []string{"foo", "bar"}
	rows := [][]string{{"x", "y"}}

	recs := BuildLeadTable(header, rows)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Timestamp)
	assert.Equal(t, core.Unknown, recs[0].Platform)
	assert.Equal(t, "x", recs[0].Get("foo"))
}

func TestBuildLeadTableShortRows(t *testing.T) {
	rows := [][]string{
		{"2025-08-11"}, // shorter than header
	}
	recs := BuildLeadTable(leadHeader, rows)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Timestamp)
	assert.Equal(t, core.Unknown, recs[0].Platform)
}

func TestBuildContractTable(t *testing.T) {
	header := []string{"DATA / HORA", "NOME", "VALOR"}
	rows := [][]string{
		{"05/01/2025", "Contrato 1", "R$ 3.500,00"},
		{"12/02/2025", "Contrato 2", "1,250.50"},
		{"20/02/2025", "Contrato 3", "0"},      // non-positive: excluded
		{"26/02/2025", "Contrato 4", "banana"}, // unparseable -> 0: excluded
	}

	recs := BuildContractTable(header, rows)
	require.Len(t, recs, 2)
	assert.InDelta(t, 3500.0, recs[0].Amount, 1e-9)
	assert.InDelta(t, 1250.5, recs[1].Amount, 1e-9)
}

// Origins classify independently per row and dates
// from mixed formats land on the same day.
func TestBuildLeadTableScenario(t *testing.T) {
	rows := [][]string{
		{"2025-08-11T10:57:25.000Z", "Busca paga | Facebook Ads", "", "", ""},
		{"11/08/2025", "Busca paga | Google Ads", "", "", ""},
		{"", "", "", "", "x"},
	}
	recs := BuildLeadTable(leadHeader, rows)
	require.Len(t, recs, 3)
	assert.Equal(t, []core.Platform{core.MetaAds, core.GoogleAds, core.Unknown},
		[]core.Platform{recs[0].Platform, recs[1].Platform, recs[2].Platform})
	assert.NotNil(t, recs[0].Timestamp)
	assert.NotNil(t, recs[1].Timestamp)
	assert.Nil(t, recs[2].Timestamp)
}
