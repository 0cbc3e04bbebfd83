package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/born-ml/tensorwire/statestore"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxShown bounds the number of elements printed in text mode.
const maxShown = 64

type valueInfo struct {
	DType        string   `json:"dtype"`
	Shape        []int    `json:"shape"`
	PayloadBytes int      `json:"payload_bytes"`
	Fingerprint  string   `json:"fingerprint"`
	Elements     []string `json:"elements"`
}

// printer writes command output, styled only when w is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, styled: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) field(key string, value any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(keyStyle, key+":"), p.render(valueStyle, fmt.Sprint(value)))
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) value(name string, info valueInfo) {
	fmt.Fprintln(p.w, p.render(titleStyle, name))
	p.field("dtype", info.DType)
	p.field("shape", info.Shape)
	p.field("payload", fmt.Sprintf("%d bytes", info.PayloadBytes))
	p.field("fingerprint", info.Fingerprint)

	elems := info.Elements
	suffix := ""
	if len(elems) > maxShown {
		suffix = p.render(dimStyle, fmt.Sprintf(" ... (%d more)", len(elems)-maxShown))
		elems = elems[:maxShown]
	}
	fmt.Fprintf(p.w, "%s [%s]%s\n", p.render(keyStyle, "elements:"), strings.Join(elems, " "), suffix)
}

func (p *printer) versions(dir string, versions []int) {
	fmt.Fprintln(p.w, p.render(titleStyle, dir))
	if len(versions) == 0 {
		fmt.Fprintln(p.w, p.render(dimStyle, "no saved versions"))
		return
	}
	for _, v := range versions {
		fmt.Fprintln(p.w, p.render(valueStyle, fmt.Sprint(v)))
	}
}

func (p *printer) entries(version int, created time.Time, entries []*statestore.EntryMeta) {
	fmt.Fprintln(p.w, p.render(titleStyle, fmt.Sprintf("version %d", version)))
	p.field("created", created.Format(time.RFC3339))
	for _, e := range entries {
		fmt.Fprintf(p.w, "%s %s %v %s\n",
			p.render(keyStyle, e.Name),
			p.render(valueStyle, e.DType),
			e.Shape,
			p.render(dimStyle, fmt.Sprintf("%d bytes %016x", e.Size, e.Fingerprint)))
	}
}
