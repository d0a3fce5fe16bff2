// Package tui implements an interactive terminal view of one acquisition
// job's lifecycle, polling the HTTP API the way a human operator would
// instead of reading the job registry in-process. Modeled on the
// teacher's internal/tui package: a bubbletea Model driven by tick
// messages, rendered with lipgloss styles.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pollInterval is how often the model re-fetches job status.
const pollInterval = 500 * time.Millisecond

// jobSnapshot is the subset of core.JobState the watcher cares about; kept
// separate from core.JobState so this package has no dependency on the
// acquisition engine, only on the wire shape GET /data/status/{id} returns.
type jobSnapshot struct {
	ID         string `json:"job_id"`
	Query      string `json:"query"`
	Status     string `json:"status"`
	Downloaded int    `json:"downloaded"`
	Unique     int    `json:"unique"`
	Duplicates int    `json:"duplicates"`
	Progress   []struct {
		Source     string `json:"source"`
		Downloaded int    `json:"downloaded"`
		Done       bool   `json:"done"`
		Error      string `json:"error,omitempty"`
	} `json:"progress"`
	Errors        []string `json:"errors,omitempty"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

type model struct {
	client  *http.Client
	baseURL string
	jobID   string

	snapshot jobSnapshot
	err      error
	quitting bool
}

// Run starts the job-watch TUI against baseURL (e.g. http://localhost:8080)
// for the given job id, blocking until the job reaches a terminal state or
// the user quits.
func Run(baseURL, jobID string) error {
	m := model{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		jobID:   jobID,
	}
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return m.fetchStatus()
}

type statusMsg jobSnapshot
type errMsg struct{ err error }
type tickMsg time.Time

func (m model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		url := fmt.Sprintf("%s/api/v1/data/status/%s", m.baseURL, m.jobID)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errMsg{err}
		}
		resp, err := m.client.Do(req)
		if err != nil {
			return errMsg{err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("status endpoint returned %d", resp.StatusCode)}
		}
		var snap jobSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return errMsg{err}
		}
		return statusMsg(snap)
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case statusMsg:
		m.snapshot = jobSnapshot(msg)
		m.err = nil
		if isTerminalStatus(m.snapshot.Status) {
			return m, tea.Quit
		}
		return m, tick()

	case tickMsg:
		return m, m.fetchStatus()

	case errMsg:
		m.err = msg.err
		return m, tick()
	}
	return m, nil
}

func isTerminalStatus(s string) bool {
	return s == "completed" || s == "failed" || s == "cancelled"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("bibliometric-api job watcher"))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("job:"), m.snapshot.ID)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("query:"), m.snapshot.Query)

	statusLine := m.snapshot.Status
	switch m.snapshot.Status {
	case "completed":
		statusLine = okStyle.Render(statusLine)
	case "failed", "cancelled":
		statusLine = errorStyle.Render(statusLine)
	}
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("status:"), statusLine)

	for _, p := range m.snapshot.Progress {
		mark := dimStyle.Render("...")
		if p.Done {
			if p.Error != "" {
				mark = errorStyle.Render("x")
			} else {
				mark = okStyle.Render("ok")
			}
		}
		fmt.Fprintf(&b, "  %-20s %-4s downloaded=%d\n", p.Source, mark, p.Downloaded)
	}

	fmt.Fprintf(&b, "\n%s downloaded=%d unique=%d duplicates=%d\n",
		labelStyle.Render("totals:"), m.snapshot.Downloaded, m.snapshot.Unique, m.snapshot.Duplicates)

	if m.snapshot.FailureReason != "" {
		fmt.Fprintf(&b, "\n%s %s\n", errorStyle.Render("failure:"), m.snapshot.FailureReason)
	}
	if m.err != nil {
		fmt.Fprintf(&b, "\n%s %s\n", errorStyle.Render("poll error:"), m.err.Error())
	}

	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render("press q to quit"))
	return b.String()
}
