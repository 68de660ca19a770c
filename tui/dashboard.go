package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tryteddy/teddyadmin/model"
)

// viewDashboard renders the aggregate counter cards and the two attention
// tables (companies low on SMS credits, companies without recent calls).
func (m Model) viewDashboard() string {
	viewRows := m.listViewRows() + 1 // no column header on this page
	if placeholder, done := m.renderFetchState(m.dashLoading, m.dashErr, viewRows); done {
		return placeholder
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		counterCard("Customers", m.dash.CompaniesCount),
		counterCard("Total Calls", m.dash.CallsCount),
		counterCard("Calls Today", m.dash.CallsToday),
		counterCard("SMS Today", m.dash.SMSToday),
	)

	low := companyTable("Low SMS Credits", m.dash.LowSMSCompanies, func(c model.Company) string {
		return creditBadge(c)
	})
	idle := companyTable("No Recent Calls", m.dash.NoCallsCompanies, func(c model.Company) string {
		return detailValueStyle.Render(orNA(c.LastActivity))
	})
	tables := lipgloss.JoinHorizontal(lipgloss.Top, low, "   ", idle)

	body := cards + "\n\n" + tables
	lines := strings.Split(body, "\n")

	var b strings.Builder
	for i := 0; i < viewRows; i++ {
		if i < len(lines) {
			b.WriteString(lines[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// counterCard renders one metric. The -1 sentinel means the backing query
// failed and renders as n/a rather than a number.
func counterCard(title string, value int) string {
	rendered := "n/a"
	if model.CountKnown(value) {
		rendered = fmt.Sprintf("%d", value)
	}
	content := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(rendered)
	return cardStyle.Render(content)
}

func companyTable(title string, companies []model.Company, extra func(model.Company) string) string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render(title) + "\n")
	if len(companies) == 0 {
		b.WriteString(dimStyle.Render("  none"))
		return b.String()
	}
	const maxRows = 8
	for i, c := range companies {
		if i == maxRows {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  +%d more", len(companies)-maxRows)))
			break
		}
		b.WriteString(" " + pad(orNA(c.Name), 26) + " " + extra(c) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
