package cmd

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"udondis/internal/config"
	"udondis/internal/disasm"
	"udondis/internal/program"
	"udondis/internal/udondis/styles"
	"udondis/internal/ui/colorize"
)

// JSONOutput is the --json form of a listing.
type JSONOutput struct {
	Digest       string           `json:"digest"`
	EntryPoints  []program.Symbol `json:"entry_points"`
	Variables    []JSONVariable   `json:"variables"`
	Instructions []JSONInst       `json:"instructions"`
}

// JSONVariable is one heap listing row.
type JSONVariable struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Known   bool   `json:"known"`
	Type    string `json:"type,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// JSONInst is one decoded instruction.
type JSONInst struct {
	Address string `json:"address"`
	Op      string `json:"op"`
	Operand string `json:"operand,omitempty"`
	Text    string `json:"text"`
	Tooltip string `json:"tooltip,omitempty"`
	Label   string `json:"label,omitempty"`
}

// digest is the sha256 of the program's bytecode.
func digest(p *program.Program) string {
	return fmt.Sprintf("%x", sha256.Sum256(p.ByteCode))
}

// joinColumns lays out index-aligned columns side by side, two spaces
// apart. Columns with no content are dropped.
func joinColumns(cols ...[]string) string {
	var blocks []string
	for _, col := range cols {
		if strings.Join(col, "") == "" {
			continue
		}
		if len(blocks) > 0 {
			blocks = append(blocks, "  ")
		}
		blocks = append(blocks, strings.Join(col, "\n"))
	}
	if len(blocks) == 0 {
		return ""
	}

	joined := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
	lines := strings.Split(joined, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// variablesBlock renders the heap listing as address and name columns.
func variablesBlock(vars []disasm.Variable) string {
	addrs, names := disasm.Columns(vars)
	return joinColumns(addrs, names)
}

// programBlock renders the listing as address and instruction columns,
// with resolved operand addresses as trailing comments.
func programBlock(l *disasm.Listing) string {
	if l == nil {
		return ""
	}
	addrs, texts := l.Columns()
	tips := make([]string, 0, len(addrs))
	for _, inst := range l.Insts {
		if inst.Label != "" {
			tips = append(tips, "")
		}
		if inst.Tooltip != "" {
			tips = append(tips, "; "+inst.Tooltip)
		} else {
			tips = append(tips, "")
		}
	}
	return joinColumns(addrs, texts, tips)
}

// listingText is the plain report: variables, then the program.
func listingText(vars []disasm.Variable, l *disasm.Listing) string {
	var sb strings.Builder
	sb.WriteString("Variables:\n")
	if block := variablesBlock(vars); block != "" {
		sb.WriteString(block + "\n")
	}
	sb.WriteString("\nProgram:\n")
	if block := programBlock(l); block != "" {
		sb.WriteString(block + "\n")
	}
	return sb.String()
}

// colorizeListing highlights text, returning it unchanged on failure.
func colorizeListing(text string, cfg config.Config) string {
	colored, err := colorize.Colorize(text, cfg.Theme)
	if err != nil {
		slog.Warn("Failed to colorize listing", "theme", cfg.Theme, "error", err)
		return text
	}
	return colored
}

// writePlain prints the variables and the program. Nothing is printed when
// the bytecode fails to decode.
func writePlain(w io.Writer, p *program.Program, cfg config.Config, color bool) error {
	opts := disasmOptions(cfg)
	listing, err := p.Disassemble(opts)
	if err != nil {
		return fmt.Errorf("disassemble: %w", err)
	}

	text := listingText(p.Variables(opts), listing)
	if color {
		text = colorizeListing(text, cfg)
	}
	_, err = io.WriteString(w, text)
	return err
}

// writeHeap prints the variables section only. The bytecode is not decoded.
func writeHeap(w io.Writer, p *program.Program, cfg config.Config, color bool) error {
	text := "Variables:\n"
	if block := variablesBlock(p.Variables(disasmOptions(cfg))); block != "" {
		text += block + "\n"
	}
	if color {
		text = colorizeListing(text, cfg)
	}
	_, err := io.WriteString(w, text)
	return err
}

// markdownReport builds the report shown by the TUI and by --markdown.
// showProgram selects whether the disassembly section is included; a nil
// listing in that section reports disasmErr instead.
func markdownReport(p *program.Program, sum string, vars []disasm.Variable, showProgram bool, l *disasm.Listing, disasmErr error) string {
	var lines []string
	if p.Path != "" {
		lines = append(lines, fmt.Sprintf("; %s", pathpkg.Base(p.Path)))
	}
	if sum != "" {
		lines = append(lines, fmt.Sprintf("; %s", sum))
	}
	lines = append(lines, fmt.Sprintf("; %d bytes, %d entry points, %d symbols, %d heap values",
		len(p.ByteCode), p.EntryPoints.Len(), p.Symbols.Len(), p.Heap.Len()))

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Udondis\n\n```\n%s\n```\n\n", strings.Join(lines, "\n"))

	sb.WriteString("## Variables\n\n")
	if block := variablesBlock(vars); block != "" {
		fmt.Fprintf(&sb, "```\n%s\n```\n", block)
	} else {
		sb.WriteString("*Heap is empty*\n")
	}

	if !showProgram {
		return sb.String()
	}
	sb.WriteString("\n## Program\n\n")
	switch {
	case disasmErr != nil || l == nil:
		sb.WriteString("No disassembly available\n")
		if disasmErr != nil {
			fmt.Fprintf(&sb, "\n```\n; %s\n```\n", escapeBackticks(disasmErr.Error()))
		}
	case l.Len() == 0:
		sb.WriteString("*No instructions*\n")
	default:
		fmt.Fprintf(&sb, "```\n%s\n```\n", programBlock(l))
	}
	return sb.String()
}

func escapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// writeMarkdown prints the markdown report, rendered through glamour when
// colour is on.
func writeMarkdown(w io.Writer, p *program.Program, cfg config.Config, color bool) error {
	opts := disasmOptions(cfg)
	listing, err := p.Disassemble(opts)
	if err != nil {
		return fmt.Errorf("disassemble: %w", err)
	}

	report := markdownReport(p, digest(p), p.Variables(opts), true, listing, nil)
	if color {
		renderer, err := styles.GetMarkdownRenderer(cfg.MarkdownWidth)
		if err != nil {
			return fmt.Errorf("markdown renderer: %w", err)
		}
		if report, err = renderer.Render(report); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}
	_, err = io.WriteString(w, report)
	return err
}

// jsonOutput converts a listing and heap into their JSON form.
func jsonOutput(p *program.Program, vars []disasm.Variable, l *disasm.Listing) JSONOutput {
	out := JSONOutput{
		Digest:       digest(p),
		EntryPoints:  p.EntryPoints.Symbols(),
		Variables:    make([]JSONVariable, 0, len(vars)),
		Instructions: make([]JSONInst, 0, l.Len()),
	}
	if out.EntryPoints == nil {
		out.EntryPoints = []program.Symbol{}
	}
	for _, v := range vars {
		out.Variables = append(out.Variables, JSONVariable{
			Address: disasm.FormatAddr(v.Addr),
			Name:    v.Name,
			Known:   v.Known,
			Type:    v.Type,
			Value:   v.Value,
		})
	}
	for _, inst := range l.Insts {
		ji := JSONInst{
			Address: disasm.FormatAddr(inst.Addr),
			Op:      inst.Op.String(),
			Text:    inst.Text,
			Tooltip: inst.Tooltip,
			Label:   inst.Label,
		}
		if inst.HasOperand {
			ji.Operand = disasm.FormatAddr(inst.Operand)
		}
		out.Instructions = append(out.Instructions, ji)
	}
	return out
}

// writeJSON prints the listing as indented JSON.
func writeJSON(w io.Writer, p *program.Program, cfg config.Config) error {
	opts := disasmOptions(cfg)
	listing, err := p.Disassemble(opts)
	if err != nil {
		return fmt.Errorf("disassemble: %w", err)
	}

	jsonData, err := json.MarshalIndent(jsonOutput(p, p.Variables(opts), listing), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %v", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
