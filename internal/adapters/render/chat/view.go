package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	Title        = "Conversational AI Data Science Assistant"
	DefaultWidth = 88
)

type Renderer struct {
	styles styles
	width  int
}

func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}

	return &Renderer{styles: newStyles(), width: width}
}

func (r *Renderer) Banner(cfg domain.GenerationConfig) string {
	model := cfg.Model
	if model == "" {
		model = "default"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.title.Render(Title),
		r.styles.subtitle.Render(fmt.Sprintf("%s · %s · /help for commands", cfg.Provider, model)),
	)
}

func (r *Renderer) Message(msg domain.Message) string {
	label := r.styles.userLabel.Render("You")
	if msg.Role == domain.RoleAssistant {
		label = r.styles.assistantLabel.Render("Tutor")
	}

	body := r.styles.body.Width(r.width).Render(strings.TrimRight(msg.Content, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}

// History renders the sidebar list of recent chats, oldest first.
func (r *Renderer) History(window []string) string {
	lines := []string{r.styles.sidebarTitle.Render("Chat History")}
	if len(window) == 0 {
		lines = append(lines, r.styles.empty.Render("No chats yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, summary := range window {
		index := r.styles.sidebarIndex.Render(fmt.Sprintf("%2d.", i+1))
		lines = append(lines, index+" "+r.styles.sidebarItem.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Transcript(t domain.Transcript) string {
	header := []string{
		r.styles.title.Render("Session " + t.SessionID),
		r.styles.subtitle.Render(fmt.Sprintf("%s · %s · started %s · %d turns",
			t.Provider, t.Model, formatTime(t.StartedAt), t.Turns())),
	}

	parts := []string{lipgloss.JoinVertical(lipgloss.Left, header...)}
	for _, msg := range t.Messages {
		parts = append(parts, r.styles.section.Render(r.Message(msg)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r *Renderer) TranscriptList(summaries []domain.TranscriptSummary) string {
	lines := []string{r.styles.title.Render("Saved transcripts")}
	if len(summaries) == 0 {
		lines = append(lines, r.styles.empty.Render("No transcripts saved."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, s := range summaries {
		lines = append(lines, fmt.Sprintf("%s  %s  %d turns",
			r.styles.sidebarItem.Render(s.SessionID),
			r.styles.subtitle.Render(formatTime(s.StartedAt)),
			s.Turns,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Notice(text string) string {
	return r.styles.notice.Render(text)
}

func (r *Renderer) Failure(text string) string {
	return r.styles.failure.Render(text)
}

func (r *Renderer) Help() string {
	rows := [][2]string{
		{"/history", "show the last chats"},
		{"/clear", "clear chat history"},
		{"/new", "start a new chat"},
		{"/save", "save the transcript"},
		{"/exit", "leave"},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-9s %s", row[0], r.styles.notice.Render(row[1])))
	}

	return strings.Join(lines, "\n")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	return t.Local().Format("2006-01-02 15:04")
}
