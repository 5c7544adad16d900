// Package diag renders diagnostics for unhandled errors: the error with its stack, and
// an excerpt of the source around the innermost frame that belongs to the application.
//
// Source excerpts are only read from files under the application base directory or the
// Go standard library; anything else is refused with ErrIllegalFilename so a crafted
// frame can never expose arbitrary files.
package diag

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dmitrymomot/pagekit/core/box"
)

// ErrIllegalFilename is returned for source files outside the allowed roots.
var ErrIllegalFilename = errors.New("illegal filename")

// DefaultContext is the number of lines shown on each side of the failing line.
const DefaultContext = 5

// Callers returns the program counters of the calling goroutine, skipping skip frames
// above the caller of Callers.
func Callers(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

// Frames expands program counters into frames, innermost first.
func Frames(pcs []uintptr) []runtime.Frame {
	if len(pcs) == 0 {
		return nil
	}
	var out []runtime.Frame
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		out = append(out, f)
		if !more {
			break
		}
	}
	return out
}

// FirstAppFrame returns the innermost frame whose file lives under base.
func FirstAppFrame(pcs []uintptr, base string) (runtime.Frame, bool) {
	root := withSeparator(filepath.Clean(base))
	for _, f := range Frames(pcs) {
		if strings.HasPrefix(filepath.Clean(f.File), root) {
			return f, true
		}
	}
	return runtime.Frame{}, false
}

// FormatStack renders frames one per line as "function\n\tfile:line".
func FormatStack(pcs []uintptr) string {
	var b strings.Builder
	for _, f := range Frames(pcs) {
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return b.String()
}

// ShowCode writes an HTML table with the lines of filename around line.
// A relative filename is resolved against base; around <= 0 shows the whole file.
func ShowCode(w io.Writer, base, filename string, line, around int) error {
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)

	if !allowed(path, base) {
		return fmt.Errorf("%w: file %s not part of codebase or standard library", ErrIllegalFilename, path)
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: unknown file %s", ErrIllegalFilename, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	line = min(max(line, 1), len(lines))

	var buf bytes.Buffer
	buf.WriteString("<table class=\"code_default dark\">\n")
	for i, text := range lines {
		n := i + 1
		if around > 0 && (n < line-around || n > line+around) {
			continue
		}
		if n == line {
			buf.WriteString("<tr class=\"selected_line\">\n")
		} else {
			buf.WriteString("<tr>\n")
		}
		buf.WriteString("<td class=\"icon\">&nbsp;</td>\n")
		fmt.Fprintf(&buf, "<td class=\"p_linum\">%s</td>\n", strings.ReplaceAll(fmt.Sprintf("%3d", n), " ", "&nbsp;"))
		fmt.Fprintf(&buf, "<td class=\"code_line\">%s</td>\n", html.EscapeString(strings.ReplaceAll(text, "\t", "    ")))
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</table>\n")

	_, err = w.Write(buf.Bytes())
	return err
}

// Unhandled writes the "Unhandled Error" diagnostic for err and its stack, followed by
// the source excerpt of the innermost application frame when there is one.
func Unhandled(w io.Writer, base string, err error, pcs []uintptr) error {
	body := "<pre>" + html.EscapeString(err.Error()+"\n\n"+FormatStack(pcs)) + "</pre>"
	if rerr := box.Red("Unhandled Error", body).Render(w); rerr != nil {
		return rerr
	}

	frame, ok := FirstAppFrame(pcs, base)
	if !ok {
		return nil
	}
	if serr := ShowCode(w, base, frame.File, frame.Line, DefaultContext); serr != nil {
		if errors.Is(serr, ErrIllegalFilename) {
			return box.New(box.Error, "Illegal filename", html.EscapeString(serr.Error())).Render(w)
		}
		return serr
	}
	return nil
}

func allowed(path, base string) bool {
	roots := []string{filepath.Clean(base)}
	if goroot := runtime.GOROOT(); goroot != "" {
		roots = append(roots, filepath.Join(goroot, "src"))
	}
	for _, root := range roots {
		if root == "" || root == "." {
			continue
		}
		if strings.HasPrefix(path, withSeparator(root)) {
			return true
		}
	}
	return false
}

func withSeparator(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
