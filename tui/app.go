package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tryteddy/teddyadmin/api"
	"github.com/tryteddy/teddyadmin/auth"
	"github.com/tryteddy/teddyadmin/config"
	"github.com/tryteddy/teddyadmin/launcher"
	"github.com/tryteddy/teddyadmin/model"
	"github.com/tryteddy/teddyadmin/query"
)

type page int

const (
	pageDashboard page = iota
	pageCustomers
	pageCalls
	pageTexts
	pageEdit
)

var pageNames = map[page]string{
	pageDashboard: "Dashboard",
	pageCustomers: "Customers",
	pageCalls:     "Calls",
	pageTexts:     "Texts",
	pageEdit:      "Edit",
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modePassword
)

// Model is the root bubbletea model for the admin console.
type Model struct {
	cfg   *config.Config
	creds *auth.Store
	hooks *query.Hooks
	log   *zap.Logger

	page   page
	mode   mode
	width  int
	height int

	spin      spinner.Model
	searchIn  textinput.Model
	passIn    textinput.Model
	statusMsg string

	companies listState[model.Company]
	calls     listState[model.Call]
	texts     listState[model.Text]

	dash        model.Dashboard
	dashLoading bool
	dashErr     error
	dashSeq     int

	edit *editForm

	quitting bool
}

// Fetch result messages. Each carries the sequence number captured when the
// fetch was issued; results from a superseded fetch are discarded.
type companiesMsg struct {
	seq  int
	rows []model.Company
	err  error
}

type callsMsg struct {
	seq  int
	rows []model.Call
	err  error
}

type textsMsg struct {
	seq  int
	rows []model.Text
	err  error
}

type dashboardMsg struct {
	seq  int
	snap model.Dashboard
	err  error
}

type companyLoadedMsg struct {
	seq     int
	company model.Company
	err     error
}

type companySavedMsg struct {
	seq     int
	company model.Company
	err     error
}

type browserOpenedMsg struct{ err error }

// NewModel builds the console model.
func NewModel(cfg *config.Config, creds *auth.Store, hooks *query.Hooks, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 100

	pi := textinput.New()
	pi.Placeholder = "admin password"
	pi.EchoMode = textinput.EchoPassword
	pi.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		cfg:   cfg,
		creds: creds,
		hooks: hooks,
		log:   log,
		page:  pageDashboard,
		// The dashboard fetch starts in Init, which cannot mutate the model.
		dashLoading: true,
		dashSeq:     1,
		spin:        sp,
		searchIn:    si,
		passIn:      pi,
		width:       120,
		height:      30,
		companies: newListState(
			func(c model.Company) string { return c.ID },
			func(c model.Company) []string { return []string{c.Name, c.Email} },
		),
		calls: newListState(
			func(c model.Call) string { return c.ID },
			func(c model.Call) []string { return []string{c.Name, c.Caller, c.Twilio} },
		),
		texts: newListState(
			func(t model.Text) string { return t.ID },
			func(t model.Text) []string { return []string{t.Name, t.From, t.To} },
		),
	}
}

func (m Model) Init() tea.Cmd {
	seq := m.dashSeq
	res := m.hooks.Dashboard
	return tea.Batch(func() tea.Msg {
		snap, err := fetchVia(res, false)
		return dashboardMsg{seq: seq, snap: snap, err: err}
	}, m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case companiesMsg:
		if msg.seq == m.companies.seq {
			m.companies.apply(msg.rows, msg.err)
		}
		return m, nil

	case callsMsg:
		if msg.seq == m.calls.seq {
			m.calls.apply(msg.rows, msg.err)
		}
		return m, nil

	case textsMsg:
		if msg.seq == m.texts.seq {
			m.texts.apply(msg.rows, msg.err)
		}
		return m, nil

	case dashboardMsg:
		if msg.seq == m.dashSeq {
			m.dashLoading = false
			m.dash, m.dashErr = msg.snap, msg.err
		}
		return m, nil

	case companyLoadedMsg:
		if m.edit != nil && msg.seq == m.edit.seq {
			m.edit.applyLoaded(msg.company, msg.err)
		}
		return m, nil

	case companySavedMsg:
		return m.handleSaved(msg)

	case browserOpenedMsg:
		if msg.err != nil {
			m.statusMsg = "browser: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modePassword:
			return m.updatePassword(msg)
		default:
			if m.page == pageEdit {
				return m.updateEdit(msg)
			}
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "1":
		return m.switchPage(pageDashboard)
	case "2":
		return m.switchPage(pageCustomers)
	case "3":
		return m.switchPage(pageCalls)
	case "4":
		return m.switchPage(pageTexts)
	case "tab":
		next := m.page + 1
		if next > pageTexts {
			next = pageDashboard
		}
		return m.switchPage(next)

	case "r":
		return m, tea.Batch(m.fetchPage(m.page, true), m.spin.Tick)

	case "p":
		m.passIn.SetValue("")
		m.passIn.Focus()
		m.mode = modePassword
		return m, nil
	}

	if m.page == pageDashboard {
		return m, nil
	}

	ls := m.currentList()
	switch msg.String() {
	case "up", "k":
		ls.move(-1)
	case "down", "j":
		ls.move(1)
	case "home", "g":
		ls.home()
	case "end", "G":
		ls.end()
	case "pgup":
		ls.move(-m.listViewRows())
	case "pgdown":
		ls.move(m.listViewRows())

	case "enter", " ":
		ls.toggleSelected()

	case "/":
		m.searchIn.SetValue(ls.search())
		m.searchIn.Focus()
		m.mode = modeSearch

	case "e":
		if m.page == pageCustomers {
			if c, ok := m.companies.selected(); ok {
				return m.enterEdit(c.ID)
			}
		}

	case "o":
		if m.page == pageCustomers {
			if c, ok := m.companies.selected(); ok {
				return m, m.openLogin(c)
			}
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchIn.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.searchIn, cmd = m.searchIn.Update(msg)
	m.currentList().setSearch(m.searchIn.Value())
	return m, cmd
}

// updatePassword handles the masked credential prompt. Saving always
// triggers an immediate refetch of the page's primary resource; there is no
// session concept, this is how the admin logs in.
func (m Model) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.passIn.Blur()
		m.mode = modeList
		return m, nil

	case "enter":
		password := m.passIn.Value()
		m.passIn.Blur()
		m.mode = modeList
		if password == "" {
			return m, nil
		}
		if err := m.creds.Set(password); err != nil {
			m.log.Error("saving credential failed", zap.Error(err))
			m.statusMsg = "could not save password: " + err.Error()
			return m, nil
		}
		return m, tea.Batch(m.fetchPage(m.page, true), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.passIn, cmd = m.passIn.Update(msg)
	return m, cmd
}

// switchPage navigates. Filter and expansion state are view-local and reset
// when the admin leaves a page.
func (m Model) switchPage(p page) (tea.Model, tea.Cmd) {
	if p == m.page {
		return m, nil
	}
	if cur := m.currentList(); cur != nil {
		cur.resetView()
	}
	m.page = p
	return m, tea.Batch(m.fetchPage(p, false), m.spin.Tick)
}

func (m *Model) fetchPage(p page, force bool) tea.Cmd {
	switch p {
	case pageCustomers:
		return m.fetchCompanies(force)
	case pageCalls:
		return m.fetchCalls(force)
	case pageTexts:
		return m.fetchTexts(force)
	case pageEdit:
		if m.edit != nil {
			return m.fetchCompany(m.edit.companyID)
		}
		return nil
	default:
		return m.fetchDashboard(force)
	}
}

func (m *Model) fetchCompanies(force bool) tea.Cmd {
	m.companies.startLoading()
	seq := m.companies.seq
	res := m.hooks.Companies
	return func() tea.Msg {
		rows, err := fetchVia(res, force)
		return companiesMsg{seq: seq, rows: rows, err: err}
	}
}

func (m *Model) fetchCalls(force bool) tea.Cmd {
	m.calls.startLoading()
	seq := m.calls.seq
	res := m.hooks.Calls
	return func() tea.Msg {
		rows, err := fetchVia(res, force)
		return callsMsg{seq: seq, rows: rows, err: err}
	}
}

func (m *Model) fetchTexts(force bool) tea.Cmd {
	m.texts.startLoading()
	seq := m.texts.seq
	res := m.hooks.Texts
	return func() tea.Msg {
		rows, err := fetchVia(res, force)
		return textsMsg{seq: seq, rows: rows, err: err}
	}
}

func (m *Model) fetchDashboard(force bool) tea.Cmd {
	m.dashLoading = true
	m.dashErr = nil
	m.dashSeq++
	seq := m.dashSeq
	res := m.hooks.Dashboard
	return func() tea.Msg {
		snap, err := fetchVia(res, force)
		return dashboardMsg{seq: seq, snap: snap, err: err}
	}
}

func (m *Model) fetchCompany(id string) tea.Cmd {
	if m.edit == nil {
		return nil
	}
	m.edit.loading = true
	m.edit.seq++
	seq := m.edit.seq
	res := m.hooks.Company(id)
	return func() tea.Msg {
		company, err := res.Get(context.Background())
		return companyLoadedMsg{seq: seq, company: company, err: err}
	}
}

func fetchVia[T any](res *query.Resource[T], force bool) (T, error) {
	if force {
		return res.Refetch(context.Background())
	}
	return res.Get(context.Background())
}

func (m Model) openLogin(c model.Company) tea.Cmd {
	password, ok := m.creds.Get()
	if !ok {
		return func() tea.Msg {
			return browserOpenedMsg{err: errors.New("no admin password stored, press p first")}
		}
	}
	u := launcher.BuildLoginURL(m.cfg.FrontBase, c, password)
	log := m.log
	return func() tea.Msg {
		log.Info("opening customer login", zap.String("email", c.Email))
		return browserOpenedMsg{err: launcher.OpenURL(u)}
	}
}

// currentList returns the list state of the active page, nil for pages
// without one.
func (m *Model) currentList() lister {
	switch m.page {
	case pageCustomers:
		return &m.companies
	case pageCalls:
		return &m.calls
	case pageTexts:
		return &m.texts
	default:
		return nil
	}
}

func (m Model) anyLoading() bool {
	return m.companies.loading || m.calls.loading || m.texts.loading ||
		m.dashLoading || (m.edit != nil && (m.edit.loading || m.edit.saving))
}

// listViewRows is the number of rows available to list content: total height
// minus title, header and bottom bar.
func (m Model) listViewRows() int {
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTitleBar() + "\n")

	switch m.page {
	case pageDashboard:
		b.WriteString(m.viewDashboard())
	case pageCustomers:
		b.WriteString(viewList(m, &m.companies, companiesHeader, renderCompanyBlock))
	case pageCalls:
		b.WriteString(viewList(m, &m.calls, callsHeader, renderCallBlock))
	case pageTexts:
		b.WriteString(viewList(m, &m.texts, textsHeader, renderTextBlock))
	case pageEdit:
		b.WriteString(m.viewEdit())
	}

	b.WriteString(m.renderBottomBar())
	return b.String()
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("Teddy Admin")
	var tabs []string
	for p := pageDashboard; p <= pageTexts; p++ {
		style := tabStyle
		if p == m.page || (m.page == pageEdit && p == pageCustomers) {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(pageNames[p]))
	}
	return title + " " + strings.Join(tabs, "")
}

func (m Model) renderBottomBar() string {
	switch m.mode {
	case modeSearch:
		return statusBarStyle.Render("Search: ") + m.searchIn.View()
	case modePassword:
		return statusBarStyle.Render("Password: ") + m.passIn.View()
	}
	if m.statusMsg != "" {
		return errorStyle.Render("  " + m.statusMsg)
	}
	switch m.page {
	case pageDashboard:
		return helpStyle.Render("  1-4: pages  r: reload  p: password  q: quit")
	case pageEdit:
		return helpStyle.Render("  Tab: next field  Enter: save  Esc: back")
	case pageCustomers:
		return helpStyle.Render("  Enter: expand  /: search  e: edit  o: login as customer  r: reload  p: password  q: quit")
	default:
		return helpStyle.Render("  Enter: expand  /: search  r: reload  p: password  q: quit")
	}
}

// renderFetchState renders the loading / error placeholder lines shared by
// every page, padded to fill the viewport. ok reports whether data can be
// shown instead.
func (m Model) renderFetchState(loading bool, err error, viewRows int) (string, bool) {
	var line string
	switch {
	case loading:
		line = "  " + m.spin.View() + " Loading..."
	case err != nil:
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Kind == api.NoCredential {
			line = promptStyle.Render("  No admin password stored. Press p to enter it.")
		} else if errors.As(err, &apiErr) && apiErr.Kind == api.AuthFailed {
			line = errorStyle.Render("  Authentication failed. Press p to re-enter the password.")
		} else {
			line = errorStyle.Render("  Error: " + err.Error())
		}
	default:
		return "", false
	}

	var b strings.Builder
	b.WriteString("\n" + line + "\n")
	for i := 2; i < viewRows; i++ {
		b.WriteString("\n")
	}
	return b.String(), true
}
