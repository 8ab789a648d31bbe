package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abc-assistant/assistant/internal/conversation"
	"github.com/abc-assistant/assistant/internal/database"
	"github.com/abc-assistant/assistant/internal/language"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	sourceHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true)

	documentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Terminal writes styled conversation output.
type Terminal struct {
	w io.Writer
}

// NewTerminal creates a renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Welcome prints the app name, about text and FAQs.
func (t *Terminal) Welcome(txt language.Text) {
	fmt.Fprintln(t.w, titleStyle.Render(txt.AppName))
	fmt.Fprintln(t.w, txt.About)
	fmt.Fprintln(t.w)
	fmt.Fprintln(t.w, userStyle.Render(txt.FAQTitle))
	for _, q := range txt.FAQs {
		fmt.Fprintf(t.w, "  • %s\n", q)
	}
	fmt.Fprintln(t.w)
}

// Block prints one block.
func (t *Terminal) Block(b conversation.Block, txt language.Text) {
	fmt.Fprintln(t.w, t.Format(b, txt))
}

// Format returns the styled form of b.
func (t *Terminal) Format(b conversation.Block, txt language.Text) string {
	var sb strings.Builder
	if b.IsBot() {
		sb.WriteString(botStyle.Render("assistant ›"))
		sb.WriteString(" ")
		sb.WriteString(StripMarkdown(b.Message))
	} else {
		sb.WriteString(userStyle.Render("you ›"))
		sb.WriteString(" ")
		sb.WriteString(b.Message)
	}

	if b.IsBot() && len(b.Sources) > 0 {
		sb.WriteString("\n")
		sb.WriteString(sourceHeaderStyle.Render("  " + txt.SourcesHeader + ":"))
		for _, s := range b.Sources {
			sb.WriteString("\n    ")
			if s.Kind == conversation.SourceDocument {
				sb.WriteString(documentStyle.Render("▤ " + s.Label()))
				sb.WriteString(" ")
				sb.WriteString(dimStyle.Render(s.URL))
			} else {
				sb.WriteString(linkStyle.Render(s.Label()))
			}
		}
	}
	return sb.String()
}

// Conversation reprints every block, used after a language switch.
func (t *Terminal) Conversation(blocks []conversation.Block, txt language.Text) {
	for _, b := range blocks {
		t.Block(b, txt)
	}
}

// Notice prints a dimmed status line.
func (t *Terminal) Notice(msg string) {
	fmt.Fprintln(t.w, dimStyle.Render(msg))
}

// Interactions prints the admin interaction log as a table.
func Interactions(w io.Writer, rows []*database.Interaction) {
	if len(rows) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No interactions recorded."))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Recent interactions (%d)", len(rows))))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tLANG\tSTATUS\tMS\tSOURCES\tQUESTION\tRESPONSE")
	for _, in := range rows {
		status := okStyle.Render("ok")
		if !in.Success {
			status = failStyle.Render("failed")
		}
		fmt.Fprintf(tw, "%s\t%s→%s\t%s\t%d\t%d\t%s\t%s\n",
			in.CreatedAt.Local().Format(time.DateTime),
			in.QuestionLanguage, in.ResponseLanguage,
			status,
			in.ResponseTimeMS,
			len(in.Sources),
			truncate(in.Question, 40),
			truncate(in.Response, 60))
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
