package program

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned when no registered format claims a file.
var ErrUnknownFormat = errors.New("unknown program format")

// Format converts between a Dump and its bytes in one serialization.
type Format struct {
	Name       string
	Extensions []string // lowercase, with the leading dot
	Unmarshal  func(data []byte, d *Dump) error
	Marshal    func(d *Dump) ([]byte, error)
}

var (
	formatsMu sync.RWMutex
	formats   = make(map[string]*Format)
	byExt     = make(map[string]*Format)
)

// RegisterFormat makes a format available to Open, Decode and Save.
// It panics if the name or one of the extensions is already taken, or if
// the format cannot both read and write.
func RegisterFormat(f Format) {
	formatsMu.Lock()
	defer formatsMu.Unlock()

	if f.Name == "" || f.Unmarshal == nil || f.Marshal == nil {
		panic("program: RegisterFormat needs a name, Unmarshal and Marshal")
	}
	if _, dup := formats[f.Name]; dup {
		panic("program: RegisterFormat called twice for " + f.Name)
	}
	for _, ext := range f.Extensions {
		if _, dup := byExt[ext]; dup {
			panic("program: extension " + ext + " already registered")
		}
	}

	fp := &f
	formats[f.Name] = fp
	for _, ext := range f.Extensions {
		byExt[ext] = fp
	}
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupFormat returns a format by name.
func LookupFormat(name string) (*Format, bool) {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	f, ok := formats[name]
	return f, ok
}

// FormatFor picks the format for path from its extension.
func FormatFor(path string) (*Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	formatsMu.RLock()
	f, ok := byExt[ext]
	formatsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, ext, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Open reads and decodes the program dump at path.
func Open(path string) (*Program, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	p, err := f.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Path = path
	return p, nil
}

// Save encodes p in the format matching path and writes it.
func Save(path string, p *Program) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := f.Encode(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write program: %w", err)
	}
	return nil
}

// Decode parses data into a Program.
func (f *Format) Decode(data []byte) (*Program, error) {
	var d Dump
	if err := f.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return FromDump(&d)
}

// Encode serializes p.
func (f *Format) Encode(p *Program) ([]byte, error) {
	data, err := f.Marshal(p.Dump())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	return data, nil
}
