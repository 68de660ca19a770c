package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/tryteddy/teddyadmin/listview"
	"github.com/tryteddy/teddyadmin/model"
)

// listState couples a listview controller with cursor, scroll and fetch
// state for one listing page.
type listState[T any] struct {
	ctl     *listview.Controller[T]
	cursor  int
	offset  int // scroll offset, in display lines
	loading bool
	err     error
	seq     int
}

func newListState[T any](id func(T) string, fields func(T) []string) listState[T] {
	return listState[T]{ctl: listview.New(id, fields)}
}

// lister is the page-type-independent surface the key handler drives.
type lister interface {
	move(delta int)
	home()
	end()
	toggleSelected()
	setSearch(term string)
	search() string
	resetView()
	startLoading()
}

func (s *listState[T]) startLoading() {
	s.loading = true
	s.err = nil
	s.seq++
}

func (s *listState[T]) apply(rows []T, err error) {
	s.loading = false
	s.err = err
	if err != nil {
		return
	}
	s.ctl.SetRows(rows)
	s.clampCursor()
}

func (s *listState[T]) visible() []T { return s.ctl.Visible() }

func (s *listState[T]) selected() (T, bool) {
	rows := s.visible()
	if len(rows) == 0 || s.cursor >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[s.cursor], true
}

func (s *listState[T]) move(delta int) {
	s.cursor += delta
	s.clampCursor()
}

func (s *listState[T]) home() { s.cursor = 0 }

func (s *listState[T]) end() {
	s.cursor = len(s.visible()) - 1
	s.clampCursor()
}

func (s *listState[T]) toggleSelected() {
	if row, ok := s.selected(); ok {
		s.ctl.Toggle(s.ctl.ID(row))
	}
}

func (s *listState[T]) setSearch(term string) {
	s.ctl.SetSearch(term)
	s.clampCursor()
}

func (s *listState[T]) search() string { return s.ctl.Search() }

func (s *listState[T]) resetView() {
	s.ctl.Reset()
	s.cursor = 0
	s.offset = 0
}

func (s *listState[T]) clampCursor() {
	n := len(s.visible())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// rowBlock is one rendered row plus its expanded detail lines. line is
// unstyled; viewList applies the selection style.
type rowBlock struct {
	id     string
	line   string
	detail []string
}

// viewList renders a listing page: header, scrolling rows with inline
// expanded details, loading and error placeholders.
func viewList[T any](m Model, s *listState[T], header func(width int) string, render func(row T, width int, expanded bool) rowBlock) string {
	viewRows := m.listViewRows()
	var b strings.Builder
	b.WriteString(header(m.width) + "\n")

	if placeholder, done := m.renderFetchState(s.loading, s.err, viewRows); done {
		b.WriteString(placeholder)
		return b.String()
	}

	rows := s.visible()
	if len(rows) == 0 {
		msg := "  No rows."
		if s.search() != "" {
			msg = "  Nothing matches " + fmt.Sprintf("%q", s.search()) + "."
		}
		b.WriteString("\n" + dimStyle.Render(msg) + "\n")
		for i := 2; i < viewRows; i++ {
			b.WriteString("\n")
		}
		return b.String()
	}

	// flatten rows and expanded details into display lines
	var lines []string
	cursorLine := 0
	for i, row := range rows {
		expanded := s.ctl.Expanded(s.ctl.ID(row))
		block := render(row, m.width, expanded)
		if i == s.cursor {
			cursorLine = len(lines)
			lines = append(lines, selectedStyle.Render(block.line))
		} else {
			lines = append(lines, block.line)
		}
		lines = append(lines, block.detail...)
	}

	// keep the cursor row in view
	if cursorLine < s.offset {
		s.offset = cursorLine
	}
	if cursorLine >= s.offset+viewRows {
		s.offset = cursorLine - viewRows + 1
	}
	if s.offset > len(lines)-viewRows {
		s.offset = len(lines) - viewRows
	}
	if s.offset < 0 {
		s.offset = 0
	}

	end := s.offset + viewRows
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[s.offset:end] {
		b.WriteString(line + "\n")
	}
	for i := end - s.offset; i < viewRows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// emailUser is the part before the @, shown as the customer handle.
func emailUser(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func creditBadge(c model.Company) string {
	label := fmt.Sprintf("%d", c.SMSRemaining)
	switch c.CreditLevel() {
	case model.SMSOK:
		return creditOKStyle.Render(label)
	case model.SMSLow:
		return creditLowStyle.Render(label)
	default:
		return creditCriticalStyle.Render(label)
	}
}

func detailLine(label, value string) string {
	return "    " + detailLabelStyle.Render(pad(label, 14)) + detailValueStyle.Render(orNA(value))
}

func wrapDetail(label, text string, width int) []string {
	if text == "" {
		return []string{detailLine(label, "")}
	}
	inner := width - 20
	if inner < 24 {
		inner = 24
	}
	wrapped := strings.Split(wordwrap.String(text, inner), "\n")
	lines := []string{detailLine(label, wrapped[0])}
	for _, l := range wrapped[1:] {
		lines = append(lines, "    "+strings.Repeat(" ", 14)+detailValueStyle.Render(l))
	}
	return lines
}

// Customers page

type companyCols struct {
	name, customer, activity, credits int
}

func companyWidths(width int) companyCols {
	w := companyCols{name: 26, customer: 18, credits: 11}
	w.activity = width - w.name - w.customer - w.credits - 6
	if w.activity < 12 {
		w.activity = 12
	}
	return w
}

func companiesHeader(width int) string {
	w := companyWidths(width)
	cols := []string{
		pad("Business", w.name),
		pad("Customer", w.customer),
		pad("Last Activity", w.activity),
		pad("SMS Credits", w.credits),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func renderCompanyBlock(c model.Company, width int, expanded bool) rowBlock {
	w := companyWidths(width)
	marker := " "
	if expanded {
		marker = "▼"
	}
	line := strings.Join([]string{
		pad(orNA(c.Name), w.name),
		pad(orNA(emailUser(c.Email)), w.customer),
		pad(orNA(c.LastActivity), w.activity),
		pad(fmt.Sprintf("%d", c.SMSRemaining), w.credits-2) + marker,
	}, " ")

	block := rowBlock{id: c.ID, line: " " + line}
	if expanded {
		block.detail = []string{
			detailLine("Email:", c.Email),
			detailLine("Phone:", c.Phone),
			detailLine("Twilio Phone:", c.TwilioPhone),
			detailLine("Address:", c.Address),
			detailLine("City:", c.City),
			detailLine("Timezone:", c.Timezone),
			detailLine("Signup Date:", c.CreatedAt),
			"    " + detailLabelStyle.Render(pad("SMS Credits:", 14)) + creditBadge(c),
			"",
		}
	}
	return block
}

// Calls page

type callCols struct {
	name, twilio, caller, duration, created int
}

func callWidths(width int) callCols {
	w := callCols{twilio: 14, caller: 14, duration: 8, created: 18}
	w.name = width - w.twilio - w.caller - w.duration - w.created - 7
	if w.name < 14 {
		w.name = 14
	}
	return w
}

func callsHeader(width int) string {
	w := callWidths(width)
	cols := []string{
		pad("Store", w.name),
		pad("Twilio", w.twilio),
		pad("Caller", w.caller),
		pad("Duration", w.duration),
		pad("Time", w.created),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func renderCallBlock(c model.Call, width int, expanded bool) rowBlock {
	w := callWidths(width)
	line := strings.Join([]string{
		pad(orNA(c.Name), w.name),
		pad(orNA(c.Twilio), w.twilio),
		pad(orNA(c.Caller), w.caller),
		pad(fmt.Sprintf("%ds", c.Duration), w.duration),
		pad(orNA(c.CreatedAt), w.created),
	}, " ")

	block := rowBlock{id: c.ID, line: " " + line}
	if expanded {
		block.detail = append(block.detail, wrapDetail("Summary:", c.Summary.Text, width)...)
		block.detail = append(block.detail,
			detailLine("Grade:", c.Grade),
			detailLine("Audio:", c.AudioURL),
			"",
		)
	}
	return block
}

// Texts page

type textCols struct {
	name, from, to, created int
}

func textWidths(width int) textCols {
	w := textCols{from: 16, to: 16, created: 18}
	w.name = width - w.from - w.to - w.created - 6
	if w.name < 14 {
		w.name = 14
	}
	return w
}

func textsHeader(width int) string {
	w := textWidths(width)
	cols := []string{
		pad("Business", w.name),
		pad("From", w.from),
		pad("To", w.to),
		pad("Time", w.created),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func renderTextBlock(t model.Text, width int, expanded bool) rowBlock {
	w := textWidths(width)
	line := strings.Join([]string{
		pad(orNA(t.Name), w.name),
		pad(orNA(t.From), w.from),
		pad(orNA(t.To), w.to),
		pad(orNA(t.CreatedAt), w.created),
	}, " ")

	block := rowBlock{id: t.ID, line: " " + line}
	if expanded {
		block.detail = append(block.detail, wrapDetail("Content:", t.Content, width)...)
		block.detail = append(block.detail, "")
	}
	return block
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width > 2 {
			return string(runes[:width-2]) + ".."
		}
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
