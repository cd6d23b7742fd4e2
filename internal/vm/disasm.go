package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/config"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
	ansiGray   = "\033[90m"
)

// UseColor decides whether a listing written to w is coloured under the
// given listing_color mode.
func UseColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type painter bool

func (p painter) paint(code, s string) string {
	if !p {
		return s
	}
	return code + s + ansiReset
}

// Fprint writes a human-readable listing of every method of c.
func Fprint(w io.Writer, c *Class, mode string) error {
	p := painter(UseColor(w, mode))
	var sb strings.Builder

	sb.WriteString(p.paint(ansiBold, fmt.Sprintf("class %s extends %s", c.Name, c.Super)))
	if len(c.Interfaces) > 0 {
		sb.WriteString(p.paint(ansiBold, " implements "+strings.Join(c.Interfaces, ", ")))
	}
	sb.WriteString(p.paint(ansiGray, fmt.Sprintf("  ; build %s", c.BuildID)))
	sb.WriteByte('\n')

	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "  field %s %s\n", f.Name, f.Desc)
	}
	for _, m := range c.Methods {
		sb.WriteByte('\n')
		writeMethod(&sb, p, m)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Disassemble returns an uncoloured listing of one method.
func Disassemble(m *Method) string {
	var sb strings.Builder
	writeMethod(&sb, painter(false), m)
	return sb.String()
}

func writeMethod(sb *strings.Builder, p painter, m *Method) {
	sb.WriteString(p.paint(ansiBold, fmt.Sprintf("== %s%s ==", m.Name, m.Desc)))
	sb.WriteString(p.paint(ansiGray, fmt.Sprintf("  ; stack=%d locals=%d", m.MaxStack, m.MaxLocals)))
	sb.WriteByte('\n')
	if m.Code == nil {
		return
	}
	for i, in := range m.Code.Code {
		fmt.Fprintf(sb, "%04d ", i)
		sb.WriteString(p.paint(ansiCyan, in.Op.String()))
		if operand := strings.TrimPrefix(in.String(), in.Op.String()); operand != "" {
			sb.WriteString(p.paint(ansiYellow, operand))
		}
		sb.WriteByte('\n')
	}
}
