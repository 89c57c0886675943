package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"udondis/internal/config"
	"udondis/internal/disasm"
	"udondis/internal/program"
)

const logSig = "UnityEngineDebug.__Log__SystemObject__SystemVoid"

// sample has two entry points, a resolved and an unresolved PUSH, an extern
// call and a jump back to the start.
func sample() *program.Program {
	p := program.New()
	var code []byte
	code = disasm.AppendInst(code, disasm.OpPush, 0x00)   // 0x00
	code = disasm.AppendInst(code, disasm.OpExtern, 0x01) // 0x08
	code = disasm.AppendInst(code, disasm.OpPop, 0)       // 0x10
	code = disasm.AppendInst(code, disasm.OpPush, 0x05)   // 0x14
	code = disasm.AppendInst(code, disasm.OpJump, 0x00)   // 0x1C
	p.ByteCode = code

	p.EntryPoints.Add("_start", 0x00)
	p.EntryPoints.Add("_update", 0x14)
	p.Symbols.Add("message", 0x00)
	p.Symbols.Add("__0_const_intnl_SystemString", 0x01)
	p.Heap.Set(0x00, "System.String", "hello")
	p.Heap.Set(0x01, "System.String", logSig)
	p.Heap.Set(0x05, "System.Int32", 7)
	return p
}

func broken() *program.Program {
	p := sample()
	p.ByteCode = append(p.ByteCode, 0, 0, 0, 3)
	return p
}

func TestJoinColumns(t *testing.T) {
	got := joinColumns(
		[]string{"", "0x00000000", "0x00000008"},
		[]string{"main:", "PUSH, a", "NOP"},
		[]string{"", "; 0x00000000", ""},
	)
	want := strings.Join([]string{
		"            main:",
		"0x00000000  PUSH, a  ; 0x00000000",
		"0x00000008  NOP",
	}, "\n")
	if got != want {
		t.Errorf("joinColumns:\n%s\nwant:\n%s", got, want)
	}

	if got := joinColumns([]string{"0x00000000"}, []string{""}); got != "0x00000000" {
		t.Errorf("empty column not dropped: %q", got)
	}
	if got := joinColumns(nil, nil); got != "" {
		t.Errorf("expected empty layout, got %q", got)
	}
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlain(&buf, sample(), config.Default(), false); err != nil {
		t.Fatalf("writePlain failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	want := [][]string{
		{"Variables:"},
		{"0x00000000", "message"},
		{"0x00000001", "__0_const_intnl_SystemString"},
		{"0x00000005", "[Unknown]"},
		nil,
		{"Program:"},
		{"_start:"},
		{"0x00000000", "PUSH,", "message", ";", "0x00000000"},
		{"0x00000008", "EXTERN,", `"` + logSig + `"`},
		{"0x00000010", "POP"},
		{"_update:"},
		{"0x00000014", "PUSH,", "[Unknown]", ";", "0x00000005"},
		{"0x0000001C", "JUMP,", "0x00000000"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, line := range lines {
		if got := strings.Fields(line); strings.Join(got, " ") != strings.Join(want[i], " ") {
			t.Errorf("line %d = %q, want fields %q", i, line, want[i])
		}
	}

	// Labels sit in the text column with an empty address.
	if !strings.HasPrefix(lines[6], strings.Repeat(" ", 12)+"_start:") {
		t.Errorf("label not aligned: %q", lines[6])
	}
	// Tooltips share a column.
	if strings.Index(lines[7], ";") != strings.Index(lines[11], ";") {
		t.Errorf("tooltips not aligned:\n%s\n%s", lines[7], lines[11])
	}
}

func TestWritePlainUnknownOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Unknown = "<?>"

	var buf bytes.Buffer
	if err := writePlain(&buf, sample(), cfg, false); err != nil {
		t.Fatalf("writePlain failed: %v", err)
	}
	if strings.Contains(buf.String(), "[Unknown]") || strings.Count(buf.String(), "<?>") != 2 {
		t.Errorf("placeholder not applied:\n%s", buf.String())
	}
}

func TestWriteFailsWithoutOutput(t *testing.T) {
	writers := map[string]func(*bytes.Buffer) error{
		"plain": func(b *bytes.Buffer) error { return writePlain(b, broken(), config.Default(), false) },
		"markdown": func(b *bytes.Buffer) error {
			return writeMarkdown(b, broken(), config.Default(), false)
		},
		"json": func(b *bytes.Buffer) error { return writeJSON(b, broken(), config.Default()) },
	}
	for name, write := range writers {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := write(&buf)
			if !errors.Is(err, disasm.ErrMalformedProgram) {
				t.Errorf("expected ErrMalformedProgram, got %v", err)
			}
			var de *disasm.DecodeError
			if !errors.As(err, &de) || de.Addr != 0x24 {
				t.Errorf("expected a decode error at 0x24, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("partial output written:\n%s", buf.String())
			}
		})
	}
}

func TestWriteHeap(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHeap(&buf, broken(), config.Default(), false); err != nil {
		t.Fatalf("writeHeap failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Variables:\n0x00000000  message\n") {
		t.Errorf("unexpected heap listing:\n%s", out)
	}
	if strings.Contains(out, "Program:") {
		t.Error("heap listing should not decode the program")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, sample(), config.Default()); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out.Digest) != 64 {
		t.Errorf("digest %q is not a sha256", out.Digest)
	}
	if len(out.EntryPoints) != 2 || out.EntryPoints[1].Name != "_update" {
		t.Errorf("entry points: %+v", out.EntryPoints)
	}
	if len(out.Variables) != 3 || out.Variables[2].Name != "[Unknown]" || out.Variables[2].Known {
		t.Errorf("variables: %+v", out.Variables)
	}
	if len(out.Instructions) != 5 {
		t.Fatalf("expected 5 instructions, got %d", len(out.Instructions))
	}

	first := out.Instructions[0]
	if first.Label != "_start" || first.Op != "PUSH" || first.Operand != "0x00000000" || first.Tooltip != "0x00000000" {
		t.Errorf("first instruction: %+v", first)
	}
	if pop := out.Instructions[2]; pop.Operand != "" || pop.Text != "POP" {
		t.Errorf("POP should have no operand: %+v", pop)
	}
	if jump := out.Instructions[4]; jump.Address != "0x0000001C" || jump.Text != "JUMP, 0x00000000" {
		t.Errorf("jump: %+v", jump)
	}
}

func TestMarkdownReport(t *testing.T) {
	p := sample()
	vars := p.Variables(disasm.Options{})
	listing, err := p.Disassemble(disasm.Options{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		showProgram bool
		listing     *disasm.Listing
		err         error
		contains    []string
		excludes    []string
	}{
		{"hidden", false, nil, nil, []string{"# Udondis", "## Variables", "0x00000005  [Unknown]"}, []string{"## Program"}},
		{"listing", true, listing, nil, []string{"## Program", "_start:", "JUMP, 0x00000000"}, []string{"No disassembly available"}},
		{"failed", true, nil, errors.New("unknown opcode"), []string{"No disassembly available", "unknown opcode"}, []string{"_start:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := markdownReport(p, "abc123", vars, tt.showProgram, tt.listing, tt.err)
			for _, s := range append(tt.contains, "; abc123") {
				if !strings.Contains(report, s) {
					t.Errorf("report missing %q:\n%s", s, report)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(report, s) {
					t.Errorf("report should not contain %q:\n%s", s, report)
				}
			}
		})
	}
}

func TestModelToggleProgram(t *testing.T) {
	m := NewModel(sample(), config.Default())
	if m.showProgram || m.listing != nil {
		t.Fatal("program view should start hidden")
	}

	m.toggleProgram()
	if !m.showProgram || m.listing.Len() != 5 || m.disasmErr != nil {
		t.Fatalf("toggle on: show=%v listing=%d err=%v", m.showProgram, m.listing.Len(), m.disasmErr)
	}
	first := m.listing

	m.toggleProgram()
	if m.showProgram || m.listing != nil {
		t.Fatal("toggle off should drop the listing")
	}

	m.toggleProgram()
	if m.listing == first {
		t.Error("toggle on should decode again")
	}
}

func TestModelToggleBrokenProgram(t *testing.T) {
	m := NewModel(broken(), config.Default())
	m.toggleProgram()
	if m.listing != nil {
		t.Error("no listing expected for a malformed program")
	}
	if !errors.Is(m.disasmErr, disasm.ErrMalformedProgram) {
		t.Errorf("expected ErrMalformedProgram, got %v", m.disasmErr)
	}

	m.toggleProgram()
	if m.disasmErr != nil {
		t.Error("toggle off should clear the error")
	}
}

func TestModelUpdate(t *testing.T) {
	var tm tea.Model = NewModel(sample(), config.Default())

	tm, _ = tm.Update(digestCalculatedMsg{digest: "feed"})
	if m := tm.(model); m.digest != "feed" || m.loadingDigest {
		t.Errorf("digest not stored: %q loading=%v", m.digest, m.loadingDigest)
	}

	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m := tm.(model); m.width != 120 || m.height != 40 {
		t.Errorf("size not stored: %dx%d", m.width, m.height)
	}
	if !strings.Contains(tm.(model).View(), "Space: show program") {
		t.Error("menu missing from view")
	}
}
