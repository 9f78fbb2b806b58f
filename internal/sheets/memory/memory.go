// Package memory is the in-process TabReader used for the demo mode
// and in tests. Tabs are plain header+rows structures.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"adsdash/internal/sheets"
)

// Tab is one spreadsheet tab held in memory.
type Tab struct {
	Header []string
	Rows   [][]string
}

// Store serves tabs from memory.
type Store struct {
	mu   sync.Mutex
	tabs map[string]Tab
}

var _ sheets.TabReader = (*Store)(nil)

// New creates a store over the given tabs.
func New(tabs map[string]Tab) *Store {
	cp := make(map[string]Tab, len(tabs))
	for k, v := range tabs {
		cp[k] = v
	}
	return &Store{tabs: cp}
}

// ReadTab returns the named tab, or sheets.ErrTabNotFound.
func (s *Store) ReadTab(_ context.Context, tab string) ([]string, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tabs[tab]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", sheets.ErrTabNotFound, tab)
	}
	return t.Header, t.Rows, nil
}

// Tabs lists the stored tab names in sorted order.
func (s *Store) Tabs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tabs))
	for name := range s.tabs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SetTab replaces a tab. Used by tests to simulate sheet edits.
func (s *Store) SetTab(name string, t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[name] = t
}

var leadHeader = []string{
	"DATA / HORA", "ORIGEM", "CAMPANHA", "CONJUNTO DE ANÚNCIOS",
	"CRIATIVO", "NOME", "E-MAIL", "TELEFONE",
}

// NewDemo builds a deterministic demo dataset shaped like the real
// lead tracker: a main lead tab, the three funnel stage tabs and the
// closed-contracts tab. Dates are spread over the 30 days before now.
func NewDemo() *Store {
	base := time.Now().UTC().AddDate(0, 0, -30)
	day := func(i int) string {
		return base.AddDate(0, 0, i).Format("2006-01-02T15:04:05.000Z")
	}

	metaCampaigns := []string{"Superendividamento", "FGTS - Revisão", "Servidor Público"}
	metaAdSets := []string{"CADASTRO | SERVIDORES | BRASIL", "LOOKALIKE | 1%", "INTERESSE | JURÍDICO"}
	googleCampaigns := []string{"Advogado Trabalhista", "Direito Previdenciário", "Revisão FGTS"}

	var leads [][]string
	for i := 0; i < 18; i++ {
		leads = append(leads, []string{
			day(i % 30), "Busca paga | Facebook Ads",
			metaCampaigns[i%len(metaCampaigns)], metaAdSets[i%len(metaAdSets)],
			"Servidor, médico",
			fmt.Sprintf("Lead %d", i+1),
			fmt.Sprintf("lead%d@email.com", i+1),
			fmt.Sprintf("55119990%04d", i+1),
		})
	}
	for i := 0; i < 11; i++ {
		leads = append(leads, []string{
			day((i * 2) % 30), "Busca paga | Google Ads",
			googleCampaigns[i%len(googleCampaigns)], "",
			"",
			fmt.Sprintf("Lead Google %d", i+1),
			fmt.Sprintf("leadgoogle%d@email.com", i+1),
			fmt.Sprintf("55119980%04d", i+1),
		})
	}
	// One row with no usable date and one with no origin, as real
	// sheets always have a few.
	leads = append(leads,
		[]string{"", "Busca paga | Facebook Ads", metaCampaigns[0], metaAdSets[0], "", "Lead sem data", "", ""},
		[]string{day(3), "", "", "", "", "Lead sem origem", "", ""},
	)

	stage := func(n int, origin string) Tab {
		rows := make([][]string, 0, n)
		for i := 0; i < n; i++ {
			rows = append(rows, []string{
				day((i * 3) % 30), origin, metaCampaigns[i%len(metaCampaigns)], "",
				"", fmt.Sprintf("Contato %d", i+1), "", "",
			})
		}
		return Tab{Header: leadHeader, Rows: rows}
	}

	contracts := Tab{
		Header: []string{"DATA / HORA", "NOME", "VALOR"},
		Rows: [][]string{
			{day(5), "Contrato 1", "R$ 3.500,00"},
			{day(12), "Contrato 2", "R$ 1.250,50"},
			{day(20), "Contrato 3", "R$ 4.800,00"},
			{day(26), "Contrato 4", "0"}, // excluded: amount must be > 0
		},
	}

	return New(map[string]Tab{
		"LEADS":                 {Header: leadHeader, Rows: leads},
		"LEADS QUALIFICADOS":    stage(9, "Busca paga | Facebook Ads"),
		"LEADS DESQUALIFICADOS": stage(6, "Busca paga | Google Ads"),
		"CONTRATOS FECHADOS":    contracts,
	})
}
