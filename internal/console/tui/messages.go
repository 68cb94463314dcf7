package tui

import (
	"precinct/contracts/records"
	"precinct/internal/console/form"
	"precinct/internal/console/session"

	tea "github.com/charmbracelet/bubbletea"
)

type loginResultMsg struct {
	officer session.Officer
	err     error
}

type registerResultMsg struct {
	err error
}

// recordsLoadedMsg follows any controller call; the view re-reads the snapshot.
type recordsLoadedMsg struct {
	err error
}

func (m *Model) loginCmd(name, password string) tea.Cmd {
	return func() tea.Msg {
		officer, err := m.session.Login(m.ctx, m.api, name, password)
		return loginResultMsg{officer: officer, err: err}
	}
}

func (m *Model) registerCmd(req records.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		return registerResultMsg{err: m.api.Register(m.ctx, req)}
	}
}

func (m *Model) mountCmd() tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg{err: m.ctl.Mount(m.ctx)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg{err: m.ctl.Refresh(m.ctx)}
	}
}

func (m *Model) queryCmd(q *string) tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg{err: m.ctl.SetQuery(m.ctx, q)}
	}
}

func (m *Model) submitCmd(f form.State) tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg{err: m.ctl.Submit(m.ctx, f)}
	}
}

func (m *Model) deleteCmd(rec records.Record) tea.Cmd {
	return func() tea.Msg {
		return recordsLoadedMsg{err: m.ctl.Delete(m.ctx, rec)}
	}
}
