// Package tui is the interactive front end: it uploads resumes, runs
// skill searches and renders the model's summaries in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"resume-rag/internal/apiclient"
	"resume-rag/internal/labeler"
	"resume-rag/internal/models"
	"resume-rag/internal/rag"
)

type state int

const (
	stateIdle state = iota
	stateSearching
)

// answerMsg is sent when a search-and-summarize round trip completes.
type answerMsg struct {
	query  string
	answer string
	err    error
}

// Model drives the analyser session: query input, rendered answers and
// the accumulated history feeding the final feedback pass.
type Model struct {
	api        *apiclient.Client
	summarizer *rag.Summarizer
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
	history    []models.Exchange
	lastAnswer string
	status     string
	state      state
	width      int
	ready      bool
}

func New(api *apiclient.Client, summarizer *rag.Summarizer, banner string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Pesquisar por habilidades"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		api:        api,
		summarizer: summarizer,
		input:      ti,
		viewport:   viewport.New(0, 0),
		spinner:    sp,
		status:     banner,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		vh := msg.Height - qh - rh - 4
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.renderer = newRenderer(m.viewport.Width)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.state == stateSearching {
			break
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.state = stateSearching
			m.status = fmt.Sprintf("Pesquisando %q...", q)
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, m.search(q))
		case "ctrl+r":
			if m.lastAnswer == "" {
				m.status = "Nada para revisar ainda."
				break
			}
			m.state = stateSearching
			m.status = "Revisando a última resposta..."
			return m, tea.Batch(m.spinner.Tick, m.review(m.lastAnswer))
		case "ctrl+f":
			if len(m.history) == 0 {
				m.status = "Nenhuma pesquisa na sessão ainda."
				break
			}
			m.state = stateSearching
			m.status = "Consolidando feedback da sessão..."
			return m, tea.Batch(m.spinner.Tick, m.feedback())
		case "ctrl+n":
			m.history = nil
			m.lastAnswer = ""
			m.viewport.SetContent("")
			m.status = "Sessão reiniciada."
			return m, nil
		}

	case answerMsg:
		m.state = stateIdle
		if msg.err != nil {
			m.status = "Erro: " + msg.err.Error()
			return m, nil
		}
		m.lastAnswer = msg.answer
		if msg.query != "" {
			m.history = append(m.history, models.Exchange{Query: msg.query, Response: msg.answer})
			m.status = fmt.Sprintf("Resultado para %q", msg.query)
		} else {
			m.status = "Pronto."
		}
		m.viewport.SetContent(m.render(msg.answer))
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.state == stateSearching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}
	header := headerStyle.Render("Análise de currículos")
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.state == stateSearching {
		status = m.spinner.View() + " " + status
	}
	help := helpStyle.Render("enter pesquisar · ctrl+r revisar · ctrl+f feedback · ctrl+n nova sessão · ctrl+c sair")
	return header + "\n" + results + "\n" + input + "\n" + statusStyle.Render(status) + "\n" + help
}

// search runs the full round trip off the UI loop: retrieve ranked
// chunks from the API, then summarize them with the model.
func (m Model) search(query string) tea.Cmd {
	api, summarizer := m.api, m.summarizer
	return func() tea.Msg {
		results, err := api.Search(query)
		if err != nil {
			return answerMsg{err: err}
		}
		if len(results) == 0 {
			return answerMsg{err: fmt.Errorf("nenhum resultado, faça upload dos currículos")}
		}
		answer, err := summarizer.Summarize(context.Background(), query, results)
		if err != nil {
			return answerMsg{err: err}
		}
		return answerMsg{query: query, answer: answer}
	}
}

func (m Model) review(prior string) tea.Cmd {
	summarizer := m.summarizer
	return func() tea.Msg {
		answer, err := summarizer.Review(context.Background(), prior)
		if err != nil {
			return answerMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

// feedback consolidates the session history, redacting every candidate
// name known to the API.
func (m Model) feedback() tea.Cmd {
	api, summarizer, history := m.api, m.summarizer, m.history
	return func() tea.Msg {
		var names []string
		if chunks, err := api.Labeled(); err == nil {
			names = labeler.Names(chunks)
		}
		answer, err := summarizer.Feedback(context.Background(), history, names)
		if err != nil {
			return answerMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func (m Model) render(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(20, width-2)),
	)
	if err != nil {
		return nil
	}
	return r
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
