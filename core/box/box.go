// Package box renders the message boxes pagekit uses for inline notices and errors.
//
// A box has a kind, an optional title and a body. Title and body are trusted HTML;
// escape user input before passing it in.
//
//	box.New(box.Error, "Invalid request", "Missing argument: id").Render(w)
package box

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math/rand/v2"
	"strings"
	"time"
)

// Kind selects the visual variant of a box.
type Kind uint8

const (
	// Plain is a neutral framed box colored by Color.
	Plain Kind = iota
	Info
	Success
	Warning
	Error
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Box is a renderable message box.
type Box struct {
	Kind  Kind
	Title string
	Body  string
	ID    string
	// Color is the frame color of a Plain box; empty means black.
	Color string
	// Fixed pins an alert box in place.
	Fixed bool
	// Closable adds a close button to an alert box.
	Closable bool
	// HideAfter auto-hides a closable alert box after the duration.
	HideAfter time.Duration
}

// New returns a box of kind. With an empty body the title becomes the body.
func New(kind Kind, title, body string) Box {
	if body == "" {
		title, body = "", title
	}
	return Box{Kind: kind, Title: title, Body: body}
}

// Red returns a plain box with a red frame.
func Red(title, body string) Box {
	b := New(Plain, title, body)
	b.Color = "red"
	return b
}

// Classes returns the CSS classes of the box container.
func (b Box) Classes() []string {
	if b.Kind == Plain {
		color := b.Color
		if color == "" {
			color = "black"
		}
		return []string{"box", color, "rounded"}
	}

	classes := []string{"alert-message"}
	if b.Fixed {
		classes = append(classes, "fixed")
	}
	return append(classes, b.Kind.String())
}

type viewData struct {
	ID       string
	Classes  string
	Title    template.HTML
	Body     template.HTML
	Closable bool
	HideMS   int64
}

var (
	plainTmpl = template.Must(template.New("plain").Parse(
		`<div{{if .ID}} id="{{.ID}}"{{end}} class="{{.Classes}}">` + "\n" +
			`{{if .Title}}<div class="title">{{.Title}}</div>` + "\n" + `{{end}}` +
			`<span class="boxBody">` + "\n" + `{{.Body}}` + "\n" + `</span>` + "\n" +
			`</div>` + "\n"))

	alertTmpl = template.Must(template.New("alert").Parse(
		`{{if .HideMS}}<script type="text/javascript">` + "\n" +
			`$(document).ready(function() {hidebox($('#{{.ID}}'), {{.HideMS}});});` + "\n" +
			`</script>` + "\n" + `{{end}}` +
			`<div id="{{.ID}}" class="{{.Classes}}">` + "\n" +
			`{{if .Closable}}<span class="close">x</span>` + "\n" + `{{end}}` +
			`<span class="boxbody">` + "\n" +
			`{{if .Title}}<strong>{{.Title}}</strong>: {{end}}{{.Body}}` + "\n" +
			`</span>` + "\n" +
			`</div>` + "\n"))
)

// Render writes the box markup to w.
func (b Box) Render(w io.Writer) error {
	data := viewData{
		ID:      b.ID,
		Classes: strings.Join(b.Classes(), " "),
		Title:   template.HTML(b.Title),
		Body:    template.HTML(b.Body),
	}

	if b.Kind == Plain {
		return plainTmpl.Execute(w, data)
	}

	if data.ID == "" {
		data.ID = fmt.Sprintf("alertbox-%x", rand.Uint64())
	}
	data.Closable = b.Closable || b.HideAfter > 0
	data.HideMS = b.HideAfter.Milliseconds()
	return alertTmpl.Execute(w, data)
}

// String returns the rendered markup.
func (b Box) String() string {
	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}
