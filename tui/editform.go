package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tryteddy/teddyadmin/api"
	"github.com/tryteddy/teddyadmin/model"
)

// edit form field indices
const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldTwilio
	fieldAddress
	fieldCredits
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name:",
	"Email:",
	"Phone:",
	"Twilio Phone:",
	"Address:",
	"SMS Credits:",
}

// jsonFieldNames maps API field-error names to form fields.
var jsonFieldNames = map[string]int{
	"name":         fieldName,
	"email":        fieldEmail,
	"phone":        fieldPhone,
	"twilio_phone": fieldTwilio,
	"address":      fieldAddress,
	"sms_remining": fieldCredits,
}

type editForm struct {
	companyID string
	company   model.Company
	inputs    [fieldCount]textinput.Model
	focus     int

	seq     int
	loading bool
	loadErr error

	saving    bool
	saveErr   error
	fieldErrs map[int]string
}

func newEditForm(companyID string) *editForm {
	f := &editForm{companyID: companyID, fieldErrs: make(map[int]string)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		f.inputs[i] = ti
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *editForm) applyLoaded(c model.Company, err error) {
	f.loading = false
	f.loadErr = err
	if err != nil {
		return
	}
	f.company = c
	f.inputs[fieldName].SetValue(c.Name)
	f.inputs[fieldEmail].SetValue(c.Email)
	f.inputs[fieldPhone].SetValue(c.Phone)
	f.inputs[fieldTwilio].SetValue(c.TwilioPhone)
	f.inputs[fieldAddress].SetValue(c.Address)
	f.inputs[fieldCredits].SetValue(strconv.Itoa(c.SMSRemaining))
}

// patch builds the update payload from the current field values. A
// non-numeric credits field is a local validation error.
func (f *editForm) patch() (model.CompanyPatch, error) {
	credits, err := strconv.Atoi(strings.TrimSpace(f.inputs[fieldCredits].Value()))
	if err != nil {
		f.fieldErrs[fieldCredits] = "must be a whole number"
		return model.CompanyPatch{}, fmt.Errorf("sms credits: %w", err)
	}
	return model.CompanyPatch{
		Name:         f.inputs[fieldName].Value(),
		Email:        f.inputs[fieldEmail].Value(),
		Phone:        f.inputs[fieldPhone].Value(),
		TwilioPhone:  f.inputs[fieldTwilio].Value(),
		Address:      f.inputs[fieldAddress].Value(),
		SMSRemaining: credits,
	}, nil
}

func (f *editForm) applySaveError(err error) {
	f.saving = false
	f.saveErr = err
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		for _, fe := range apiErr.Fields {
			if idx, ok := jsonFieldNames[fe.Field]; ok {
				f.fieldErrs[idx] = fe.Message
			}
		}
	}
}

func (m Model) enterEdit(companyID string) (tea.Model, tea.Cmd) {
	m.edit = newEditForm(companyID)
	m.page = pageEdit
	return m, tea.Batch(m.fetchCompany(companyID), m.spin.Tick)
}

// leaveEdit returns to the customers page. The companies fetch is cheap:
// it only hits the network when the edit invalidated the cache.
func (m Model) leaveEdit() (tea.Model, tea.Cmd) {
	m.edit = nil
	m.page = pageCustomers
	return m, tea.Batch(m.fetchCompanies(false), m.spin.Tick)
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.edit
	if f == nil {
		return m.leaveEdit()
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		return m.leaveEdit()

	case "p":
		// only react when no text field is being typed into
		if f.loading || f.loadErr != nil {
			m.passIn.SetValue("")
			m.passIn.Focus()
			m.mode = modePassword
			return m, nil
		}

	case "tab", "down":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + 1) % fieldCount
		f.inputs[f.focus].Focus()
		return m, nil

	case "shift+tab", "up":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus - 1 + fieldCount) % fieldCount
		f.inputs[f.focus].Focus()
		return m, nil

	case "enter":
		if f.loading || f.saving {
			return m, nil
		}
		f.fieldErrs = make(map[int]string)
		patch, err := f.patch()
		if err != nil {
			return m, nil
		}
		f.saving = true
		f.saveErr = nil
		f.seq++
		seq := f.seq
		update := m.hooks.UpdateCompany(f.companyID)
		return m, tea.Batch(func() tea.Msg {
			company, err := update.Run(context.Background(), patch)
			return companySavedMsg{seq: seq, company: company, err: err}
		}, m.spin.Tick)
	}

	if f.loading || f.loadErr != nil {
		return m, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m Model) handleSaved(msg companySavedMsg) (tea.Model, tea.Cmd) {
	f := m.edit
	if f == nil || msg.seq != f.seq {
		return m, nil
	}
	if msg.err != nil {
		f.applySaveError(msg.err)
		return m, nil
	}
	f.saving = false
	m.statusMsg = fmt.Sprintf("Saved %s.", orNA(msg.company.Name))
	return m.leaveEdit()
}

func (m Model) viewEdit() string {
	f := m.edit
	viewRows := m.listViewRows() + 1 // edit page has no column header
	if f == nil {
		return strings.Repeat("\n", viewRows)
	}

	if placeholder, done := m.renderFetchState(f.loading, f.loadErr, viewRows); done {
		return placeholder
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(1, 2).
		Width(64)

	titleStr := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		Render("Edit Company: " + orNA(f.company.Name))

	var rows []string
	rows = append(rows, titleStr, "")
	for i := 0; i < fieldCount; i++ {
		label := m.editFieldLabel(fieldLabels[i], f.focus == i)
		rows = append(rows, label+" "+f.inputs[i].View())
		if msg, ok := f.fieldErrs[i]; ok {
			rows = append(rows, strings.Repeat(" ", 15)+errorStyle.Render(msg))
		}
	}

	switch {
	case f.saving:
		rows = append(rows, "", m.spin.View()+" Saving...")
	case f.saveErr != nil && len(f.fieldErrs) == 0:
		rows = append(rows, "", errorStyle.Render(f.saveErr.Error()))
	default:
		rows = append(rows, "", dimStyle.Render("Enter: save  Esc: back  Tab: next field"))
	}

	box := boxStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(m.width, viewRows, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) editFieldLabel(label string, focused bool) string {
	style := lipgloss.NewStyle().Width(14)
	if focused {
		style = style.Bold(true).Foreground(lipgloss.Color("39"))
	} else {
		style = style.Foreground(lipgloss.Color("252"))
	}
	return style.Render(label)
}
