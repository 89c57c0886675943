package cmd

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"udondis/internal/config"
	"udondis/internal/disasm"
	"udondis/internal/program"
	"udondis/internal/udondis/styles"
)

type model struct {
	viewport      viewport.Model
	spinner       spinner.Model
	program       *program.Program
	cfg           config.Config
	digest        string
	loadingDigest bool
	vars          []disasm.Variable
	showProgram   bool
	listing       *disasm.Listing // nil unless showProgram and decoding succeeded
	disasmErr     error
	width         int
	height        int
}

type digestCalculatedMsg struct {
	digest string
}

func calculateDigestCmd(p *program.Program) tea.Cmd {
	return func() tea.Msg {
		return digestCalculatedMsg{digest: digest(p)}
	}
}

func NewModel(p *program.Program, cfg config.Config) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	m := model{
		viewport:      vp,
		spinner:       s,
		program:       p,
		cfg:           cfg,
		loadingDigest: true,
		vars:          p.Variables(disasmOptions(cfg)),
		width:         80,
		height:        24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		calculateDigestCmd(m.program),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case digestCalculatedMsg:
		m.digest = msg.digest
		m.loadingDigest = false
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loadingDigest {
			m.updateContent()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "space", " ", "p":
			m.toggleProgram()
			m.viewport.GotoTop()
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toggleProgram flips the program view. Turning it on decodes the bytecode
// again; turning it off drops the listing.
func (m *model) toggleProgram() {
	m.showProgram = !m.showProgram
	m.listing, m.disasmErr = nil, nil
	if m.showProgram {
		m.listing, m.disasmErr = m.program.Disassemble(disasmOptions(m.cfg))
		if m.disasmErr != nil {
			slog.Warn("Disassembly failed", "path", m.program.Path, "error", m.disasmErr)
		} else {
			slog.Debug("Disassembled program", "instructions", m.listing.Len())
		}
	}
	m.updateContent()
}

func (m model) View() string {
	menu := " Space: show program • Q: quit "
	if m.showProgram {
		menu = " Space: hide program • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return m.viewport.View() + "\n" + menuStyle.Render(menu)
}

func (m *model) updateContent() {
	markdown := markdownReport(m.program, m.digest, m.vars, m.showProgram, m.listing, m.disasmErr)
	if m.loadingDigest {
		markdown += "\n" + m.spinner.View() + " Calculating digest...\n"
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	renderer, err := styles.GetMarkdownRenderer(width - 2)
	if err != nil {
		m.viewport.SetContent(markdown)
		return
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		m.viewport.SetContent(markdown)
		return
	}
	m.viewport.SetContent(strings.TrimSuffix(rendered, "\n"))
}
