// Package ingest turns raw spreadsheet tabs into typed record sets.
//
// Column names vary across sheet revisions and locales, so the derived
// fields (timestamp, platform, campaign, ad-set) are resolved through
// fixed ordered alias lists. A row whose cells fail to parse keeps its
// raw fields and degrades only the derived values; the batch is never
// aborted.
package ingest

import (
	"strings"

	"adsdash/internal/core"
)

// Column alias lists, tried in order. First exact match wins.
var (
	dateAliases     = []string{"DATA / HORA", "data_hora", "DATA", "Data", "data"}
	originAliases   = []string{"ORIGEM", "origem", "Origem", "source"}
	campaignAliases = []string{"CAMPANHA", "campanha", "Campanha", "campaign"}
	adSetAliases    = []string{"CONJUNTO DE ANÚNCIOS", "conjunto_anuncios", "ad_set", "adset"}
	amountAliases   = []string{"VALOR", "valor", "VALOR DO CONTRATO", "amount"}
)

// BuildLeadTable converts header+rows into LeadRecords. All-blank rows
// are dropped. When no alias resolves a column, the corresponding
// derived field stays unset; that is not an error.
func BuildLeadTable(header []string, rows [][]string) []core.LeadRecord {
	dateCol := findColumn(header, dateAliases)
	originCol := findColumn(header, originAliases)
	campaignCol := findColumn(header, campaignAliases)
	adSetCol := findColumn(header, adSetAliases)

	out := make([]core.LeadRecord, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		rec := core.LeadRecord{
			Fields:   rawFields(header, row),
			Platform: core.Unknown,
			Campaign: cell(row, campaignCol),
			AdSet:    cell(row, adSetCol),
		}
		if dateCol >= 0 {
			if ts, ok := core.ParseDate(cell(row, dateCol)); ok {
				rec.Timestamp = &ts
			}
		}
		if originCol >= 0 {
			rec.Platform = core.ClassifyPlatform(cell(row, originCol))
		}
		out = append(out, rec)
	}
	return out
}

// BuildContractTable converts header+rows into ContractRecords. Rows
// whose amount does not normalize to a positive value are excluded:
// they cannot contribute to revenue aggregates.
func BuildContractTable(header []string, rows [][]string) []core.ContractRecord {
	dateCol := findColumn(header, dateAliases)
	amountCol := findColumn(header, amountAliases)

	out := make([]core.ContractRecord, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		amount := core.ParseCurrency(cell(row, amountCol))
		if amount <= 0 {
			continue
		}
		rec := core.ContractRecord{Amount: amount}
		if dateCol >= 0 {
			if ts, ok := core.ParseDate(cell(row, dateCol)); ok {
				rec.Timestamp = &ts
			}
		}
		out = append(out, rec)
	}
	return out
}

// findColumn returns the index of the first alias present in the
// header, or -1. Aliases are in priority order, so a sheet carrying
// both "DATA / HORA" and "data" resolves to the former.
func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, name := range header {
			if strings.TrimSpace(name) == alias {
				return i
			}
		}
	}
	return -1
}

func rawFields(header []string, row []string) []core.Field {
	n := len(row)
	if len(header) < n {
		n = len(header)
	}
	fields := make([]core.Field, 0, n)
	for i := 0; i < n; i++ {
		fields = append(fields, core.Field{Name: header[i], Value: row[i]})
	}
	return fields
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
