// Package report renders synthesised value tuples for the terminal.
package report

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/muesli/termenv"
	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/ui/output"
	"go.trai.ch/prefab/internal/ui/style"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

const labelWidth = 9

var dumper = &spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Renderer writes tuples and type listings to w.
type Renderer struct {
	w       io.Writer
	heading lipgloss.Style
	red     lipgloss.Style
	black   lipgloss.Style
	muted   lipgloss.Style
}

// New creates a Renderer for w.
func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(output.ColorProfile()))
	return &Renderer{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(style.Iris),
		red:     r.NewStyle().Foreground(style.Red),
		black:   r.NewStyle().Foreground(style.Slate),
		muted:   r.NewStyle().Foreground(style.Slate).Faint(true),
	}
}

// Tuple writes the red, black and redCopy values of the type called name.
func (r *Renderer) Tuple(name string, tup domain.Tuple) error {
	var b strings.Builder
	b.WriteString(r.heading.Render(name) + "\n")
	r.line(&b, r.red, "red", tup.Red)
	r.line(&b, r.black, "black", tup.Black)
	r.line(&b, r.red, "redCopy", tup.RedCopy)
	b.WriteString("\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) line(b *strings.Builder, s lipgloss.Style, label string, v any) {
	pad := strings.Repeat(" ", labelWidth+2)
	lines := strings.Split(Format(v), "\n")

	b.WriteString("  " + s.Render(fmt.Sprintf("%-*s", labelWidth, label)) + lines[0] + "\n")
	for _, l := range lines[1:] {
		b.WriteString(pad + l + "\n")
	}
}

// Names writes one type name per line, followed by a count.
func (r *Renderer) Names(names []string) error {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n + "\n")
	}
	b.WriteString(r.muted.Render(fmt.Sprintf("%d types", len(names))) + "\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

// Format renders v on one or more lines. Protobuf messages use the text
// format, everything else a dump with types and without pointer addresses.
func Format(v any) string {
	if m, ok := v.(proto.Message); ok && !reflect.ValueOf(m).IsNil() {
		text := prototext.MarshalOptions{}.Format(m)
		return fmt.Sprintf("(%T) {%s}", m, strings.TrimSpace(text))
	}
	return strings.TrimRight(dumper.Sdump(v), "\n")
}
