package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"precinct/contracts/records"
	"precinct/internal/console/client"
	"precinct/internal/console/view"
)

func (m *Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewLogin()
	case screenRegister:
		return m.viewRegister()
	default:
		return m.viewDashboard()
	}
}

func (m *Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Police Login"))
	b.WriteString("\n")
	labels := []string{"Police Name", "Password"}
	for i, in := range m.loginInputs {
		b.WriteString(m.fieldLabel(labels[i], i == m.focus))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	m.writeStatus(&b, m.formError)
	b.WriteString(m.styles.help.Render("enter: login • tab: next field • ctrl+r: register • esc: quit"))
	return b.String()
}

func (m *Model) viewRegister() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Officer Registration"))
	b.WriteString("\n")
	for i, in := range m.registerInputs {
		b.WriteString(m.fieldLabel(registerLabels[i], i == m.focus))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	m.writeStatus(&b, m.formError)
	b.WriteString(m.styles.help.Render("enter: next / submit • esc: back to login"))
	return b.String()
}

func (m *Model) viewDashboard() string {
	snap := m.ctl.Snapshot()

	var b strings.Builder
	title := "Criminal Records"
	if officer, ok := m.session.Officer(); ok {
		title = fmt.Sprintf("Criminal Records · %s", officer.PoliceName)
	}
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("\n")

	b.WriteString(m.fieldLabel("Search", m.searching))
	b.WriteString(" ")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(snap.Records) == 0 {
		b.WriteString(m.styles.label.Render("No records found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if snap.LastError != nil {
		b.WriteString(m.styles.err.Render(client.UserMessage(snap.LastError)))
		b.WriteString("\n")
	}

	switch {
	case m.confirm == confirmDelete:
		b.WriteString("\n")
		b.WriteString(m.styles.prompt.Render(view.DeletePrompt + " (y/n)"))
	case m.confirm == confirmLogout:
		b.WriteString("\n")
		b.WriteString(m.styles.prompt.Render(LogoutPrompt + " (y/n)"))
	case snap.ModalOpen:
		b.WriteString("\n")
		b.WriteString(m.viewModal(snap.Selected != nil))
	default:
		b.WriteString(m.styles.help.Render("a: add • e: edit • d: delete • /: search • r: refresh • l: logout • q: quit"))
	}
	return b.String()
}

func (m *Model) viewModal(editing bool) string {
	heading := "Add Record"
	if editing {
		heading = "Edit Record"
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(heading))
	b.WriteString("\n")
	b.WriteString(m.fieldLabel("Name", m.modalFocus == fieldName))
	b.WriteString("\n")
	b.WriteString(m.modalName.View())
	b.WriteString("\n")
	b.WriteString(m.fieldLabel("Sex", m.modalFocus == fieldSex))
	b.WriteString("\n")
	b.WriteString(m.sexToggle())
	b.WriteString("\n")
	b.WriteString(m.fieldLabel("National ID", m.modalFocus == fieldNationalID))
	b.WriteString("\n")
	b.WriteString(m.modalNID.View())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("enter: save • tab: next field • ←/→: sex • esc: cancel"))
	return m.styles.modal.Render(b.String())
}

func (m *Model) sexToggle() string {
	opts := make([]string, 0, 2)
	for _, s := range []records.Sex{records.SexMale, records.SexFemale} {
		mark := "( )"
		if m.modalSex == s {
			mark = "(•)"
		}
		opts = append(opts, fmt.Sprintf("%s %s", mark, s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, opts[0], "   ", opts[1])
}

func (m *Model) fieldLabel(label string, focused bool) string {
	if focused {
		return m.styles.focused.Render(label)
	}
	return m.styles.label.Render(label)
}

func (m *Model) writeStatus(b *strings.Builder, errMsg string) {
	if m.busy {
		b.WriteString(m.styles.label.Render("Working..."))
		b.WriteString("\n")
	}
	if errMsg != "" {
		b.WriteString(m.styles.err.Render(errMsg))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.notice.Render(m.notice))
		b.WriteString("\n")
	}
}
