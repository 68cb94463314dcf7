// Package tui is the interactive terminal dashboard of the console.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"precinct/contracts/records"
	"precinct/internal/console/client"
	"precinct/internal/console/form"
	"precinct/internal/console/session"
	"precinct/internal/console/view"
)

// API is the backend surface the dashboard needs; client.Client satisfies it.
type API interface {
	view.Backend
	session.Authenticator
	Register(ctx context.Context, req records.RegisterRequest) error
}

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenDashboard
)

type pendingConfirm int

const (
	confirmNone pendingConfirm = iota
	confirmDelete
	confirmLogout
)

const LogoutPrompt = "Are you sure you want to logout?"

// Modal field order.
const (
	fieldName = iota
	fieldSex
	fieldNationalID
	modalFields
)

var registerLabels = []string{"Police ID", "Police Name", "Department", "Police Address", "Designation", "Password"}

type Model struct {
	ctx     context.Context
	api     API
	session *session.Session
	ctl     *view.Controller
	logger  *slog.Logger
	styles  styles

	screen        screen
	width, height int

	loginInputs    []textinput.Model
	registerInputs []textinput.Model
	focus          int
	formError      string
	notice         string
	busy           bool

	table     table.Model
	search    textinput.Model
	searching bool

	modalName  textinput.Model
	modalNID   textinput.Model
	modalSex   records.Sex
	modalFocus int

	confirm       pendingConfirm
	pendingRecord records.Record
}

// New builds the dashboard. An already active session skips the login screen.
func New(ctx context.Context, api API, sess *session.Session, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		ctx:     ctx,
		api:     api,
		session: sess,
		logger:  logger,
		styles:  defaultStyles(),
		ctl: view.New(api, sess,
			view.WithLogger(logger),
			// The dashboard asks before issuing the delete command.
			view.WithConfirmer(view.AlwaysConfirm),
		),
	}

	m.loginInputs = []textinput.Model{
		newInput("Police Name", false),
		newInput("Password", true),
	}
	m.registerInputs = make([]textinput.Model, len(registerLabels))
	for i, label := range registerLabels {
		m.registerInputs[i] = newInput(label, label == "Password")
	}

	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Sex", Width: 8},
			{Title: "National ID", Width: 20},
			{Title: "ID", Width: 38},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	m.search = textinput.New()
	m.search.Placeholder = "Search by ID prefix"
	m.search.CharLimit = 128
	m.search.Width = 40

	m.modalName = newInput("Name", false)
	m.modalNID = newInput("National ID", false)

	if sess.Active() {
		m.screen = screenDashboard
	} else {
		m.screen = screenLogin
		m.focusInputs(m.loginInputs, 0)
	}
	return m
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return ti
}

// Controller exposes the view state; used by tests.
func (m *Model) Controller() *view.Controller {
	return m.ctl
}

func (m *Model) Init() tea.Cmd {
	if m.screen == screenDashboard {
		return m.mountCmd()
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.formError = client.UserMessage(msg.err)
			return m, nil
		}
		m.formError, m.notice = "", ""
		m.clearInputs(m.loginInputs)
		m.screen = screenDashboard
		return m, m.mountCmd()

	case registerResultMsg:
		m.busy = false
		if msg.err != nil {
			m.formError = client.UserMessage(msg.err)
			return m, nil
		}
		m.clearInputs(m.registerInputs)
		m.formError = ""
		m.notice = "Registration successful. Please log in."
		m.screen = screenLogin
		m.focusInputs(m.loginInputs, 0)
		return m, nil

	case recordsLoadedMsg:
		m.busy = false
		m.syncTable()
		m.syncModal()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenRegister:
			return m.updateRegister(msg)
		default:
			return m.updateDashboard(msg)
		}
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.screen = screenRegister
		m.formError, m.notice = "", ""
		m.focusInputs(m.registerInputs, 0)
		return m, nil
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.focusInputs(m.loginInputs, (m.focus+1)%len(m.loginInputs))
		return m, nil
	case "shift+tab", "up":
		m.focusInputs(m.loginInputs, (m.focus+len(m.loginInputs)-1)%len(m.loginInputs))
		return m, nil
	case "enter":
		if m.focus < len(m.loginInputs)-1 {
			m.focusInputs(m.loginInputs, m.focus+1)
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.formError = ""
		return m, m.loginCmd(m.loginInputs[0].Value(), m.loginInputs[1].Value())
	}
	var cmd tea.Cmd
	m.loginInputs[m.focus], cmd = m.loginInputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenLogin
		m.formError = ""
		m.focusInputs(m.loginInputs, 0)
		return m, nil
	case "tab", "down":
		m.focusInputs(m.registerInputs, (m.focus+1)%len(m.registerInputs))
		return m, nil
	case "shift+tab", "up":
		m.focusInputs(m.registerInputs, (m.focus+len(m.registerInputs)-1)%len(m.registerInputs))
		return m, nil
	case "enter":
		if m.focus < len(m.registerInputs)-1 {
			m.focusInputs(m.registerInputs, m.focus+1)
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.formError = ""
		in := m.registerInputs
		return m, m.registerCmd(records.RegisterRequest{
			PoliceID:      in[0].Value(),
			PoliceName:    in[1].Value(),
			Department:    in[2].Value(),
			PoliceAddress: in[3].Value(),
			Designation:   in[4].Value(),
			Password:      in[5].Value(),
		})
	}
	var cmd tea.Cmd
	m.registerInputs[m.focus], cmd = m.registerInputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != confirmNone {
		return m.updateConfirm(msg)
	}
	if m.ctl.Snapshot().ModalOpen {
		return m.updateModal(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.table.Blur()
		return m, m.search.Focus()
	case "a":
		m.ctl.OpenAdd()
		m.syncModal()
		return m, nil
	case "e", "enter":
		if rec, ok := m.selectedRecord(); ok {
			m.ctl.OpenEdit(rec)
			m.syncModal()
		}
		return m, nil
	case "d":
		if rec, ok := m.selectedRecord(); ok {
			m.pendingRecord = rec
			m.confirm = confirmDelete
		}
		return m, nil
	case "r":
		m.busy = true
		return m, m.refreshCmd()
	case "l":
		m.confirm = confirmLogout
		return m, nil
	case "x":
		m.ctl.ClearError()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.table.Focus()
		var q *string
		if v := m.search.Value(); v != "" {
			q = &v
		}
		m.busy = true
		return m, m.queryCmd(q)
	case "esc":
		m.searching = false
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctl.CloseModal()
		m.syncModal()
		return m, nil
	case "tab", "down":
		m.focusModal((m.modalFocus + 1) % modalFields)
		return m, nil
	case "shift+tab", "up":
		m.focusModal((m.modalFocus + modalFields - 1) % modalFields)
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.submitCmd(m.modalState())
	}

	var cmd tea.Cmd
	switch m.modalFocus {
	case fieldName:
		m.modalName, cmd = m.modalName.Update(msg)
	case fieldNationalID:
		m.modalNID, cmd = m.modalNID.Update(msg)
	case fieldSex:
		switch msg.String() {
		case "left", "right", " ", "h", "l":
			if m.modalSex == records.SexFemale {
				m.modalSex = records.SexMale
			} else {
				m.modalSex = records.SexFemale
			}
		}
	}
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.confirm
	switch msg.String() {
	case "y", "Y":
		m.confirm = confirmNone
		if kind == confirmDelete {
			m.busy = true
			return m, m.deleteCmd(m.pendingRecord)
		}
		m.logout()
		return m, nil
	case "n", "N", "esc":
		m.confirm = confirmNone
	}
	return m, nil
}

func (m *Model) logout() {
	m.session.Teardown()
	m.ctl.Reset()
	m.search.SetValue("")
	m.syncTable()
	m.screen = screenLogin
	m.formError, m.notice = "", ""
	m.focusInputs(m.loginInputs, 0)
}

func (m *Model) selectedRecord() (records.Record, bool) {
	recs := m.ctl.Snapshot().Records
	i := m.table.Cursor()
	if i < 0 || i >= len(recs) {
		return records.Record{}, false
	}
	return recs[i], true
}

func (m *Model) syncTable() {
	recs := m.ctl.Snapshot().Records
	rows := make([]table.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, table.Row{
			form.Display(r.Name),
			form.Display(string(r.Sex)),
			form.Display(r.NationalID),
			r.ID,
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// syncModal loads the controller's form state into the inputs.
func (m *Model) syncModal() {
	snap := m.ctl.Snapshot()
	if !snap.ModalOpen {
		m.modalName.Blur()
		m.modalNID.Blur()
		m.table.Focus()
		return
	}
	m.modalName.SetValue(snap.Form.Name)
	m.modalNID.SetValue(snap.Form.NationalID)
	m.modalSex = snap.Form.Sex
	m.table.Blur()
	m.focusModal(fieldName)
}

func (m *Model) modalState() form.State {
	return form.State{
		Name:       m.modalName.Value(),
		Sex:        m.modalSex,
		NationalID: m.modalNID.Value(),
	}
}

func (m *Model) focusModal(i int) {
	m.modalFocus = i
	m.modalName.Blur()
	m.modalNID.Blur()
	switch i {
	case fieldName:
		m.modalName.Focus()
	case fieldNationalID:
		m.modalNID.Focus()
	}
}

func (m *Model) focusInputs(inputs []textinput.Model, i int) {
	m.focus = i
	for j := range inputs {
		if j == i {
			inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
}

func (m *Model) clearInputs(inputs []textinput.Model) {
	for j := range inputs {
		inputs[j].SetValue("")
	}
}

// Run starts the dashboard on the terminal and blocks until it exits.
func Run(ctx context.Context, api API, sess *session.Session, logger *slog.Logger) error {
	p := tea.NewProgram(New(ctx, api, sess, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
