package runs

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kekayan/runs-cli/internal/application"
	"github.com/kekayan/runs-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(session application.Session, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("GitHub Actions")}

	if session.User != nil {
		login := session.User.Login
		if session.User.Name != "" {
			login = fmt.Sprintf("%s (%s)", session.User.Name, session.User.Login)
		}
		lines = append(lines, s.header.Render("signed in as "+login))
	}

	if session.LastError != "" {
		lines = append(lines, s.warning.Render(session.LastError))
	}

	if len(session.LatestRuns) == 0 {
		lines = append(lines, s.empty.Render(emptyMessage(session)))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, run := range session.LatestRuns {
		lines = append(lines, s.section.Render(renderRun(run, opts, s)))
	}

	if !session.LastRefresh.IsZero() {
		lines = append(lines, s.section.Render(
			s.header.Render("refreshed "+formatRelative(session.LastRefresh, opts.Now))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRun(run domain.Run, opts RenderOptions, s styles) string {
	name := run.Name
	if name == "" {
		name = run.Repository.Name
	}

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.statusStyle(run.StatusColor()).Render(run.StatusIcon()),
		" ",
		s.repo.Render(run.Repository.FullName),
		"  ",
		s.detail.Render(name),
	)

	meta := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.statusStyle(run.StatusColor()).Render(run.DisplayStatus()),
		"  ",
		s.sha.Render(run.ShortSHA()),
		"  ",
		s.when.Render(formatRelative(run.CreatedAt, opts.Now)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, line, "  "+meta)
}

func emptyMessage(session application.Session) string {
	if len(session.Selected) == 0 {
		return "No repositories selected. Pick some with `runs repos toggle`."
	}
	return "No workflow runs yet for the selected repositories."
}

// formatRelative renders the original app's compact relative timestamps.
func formatRelative(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
