package main

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/pagekit/core/dispatch"
	"github.com/dmitrymomot/pagekit/core/handler"
	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/view"
)

const (
	visitsField = "visits"
	notesField  = "notes"
)

var layout = template.Must(template.New("notes").Parse(`<!doctype html>
<html><head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Visits: {{.Visits}}</p>
<ul>{{range .Notes}}<li>{{.}}</li>{{end}}</ul>
<form method="post" action="/notes">
<input name="text"><button>Add</button>
</form>
</body></html>
`))

type notesPage struct {
	Title  string
	Visits int
	Notes  []string
}

type greeting struct {
	Name string
}

func newViews() *view.Registry {
	views := view.NewRegistry()
	views.MustRegister("notes", view.Template(layout, ""))
	views.MustRegister("hello", view.Typed(func(g greeting) templ.Component {
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := fmt.Fprintf(w, "<p>Hello, %s!</p>", template.HTMLEscapeString(g.Name))
			return err
		})
	}))
	return views
}

func registerRoutes(d *dispatch.Dispatcher) {
	d.Get(``, indexHandler, handler.View("notes"), handler.AllowGuests())
	d.Post(`notes`, addNoteHandler, handler.Required(dispatch.DefaultFormPrefix+"text"), handler.AllowGuests())
	d.Get(`hello/(?P<name>[^/]+)`, helloHandler, handler.Required("name"), handler.View("hello"), handler.AllowGuests())
	d.Get(`notes\.txt`, exportHandler, handler.AllowGuests())
}

func indexHandler(c *handler.Context, _ params.Tree) handler.Outcome {
	s := c.Session()
	page := notesPage{Title: "Notes"}
	if s == nil {
		return handler.Value(page)
	}

	// Values read back from a snapshot are float64.
	switch n, _ := s.Get(visitsField); v := n.(type) {
	case int:
		page.Visits = v
	case float64:
		page.Visits = int(v)
	}
	page.Visits++
	if err := s.Set(c.Context(), visitsField, page.Visits); err != nil {
		return handler.Fail(err)
	}
	page.Notes = sessionNotes(c)
	return handler.Value(page)
}

func addNoteHandler(c *handler.Context, args params.Tree) handler.Outcome {
	text, _ := args.String(dispatch.DefaultFormPrefix + "text")
	text = strings.TrimSpace(text)
	if text == "" {
		return c.Error("Empty note", "Write something before adding a note.")
	}
	s := c.Session()
	if s == nil {
		return handler.Redirect("/")
	}
	notes := append(sessionNotes(c), text)
	if err := s.Set(c.Context(), notesField, notes); err != nil {
		return handler.Fail(err)
	}
	if err := s.Remember(c.Context(), notesField); err != nil {
		return handler.Fail(err)
	}
	return handler.Redirect("/")
}

func helloHandler(_ *handler.Context, args params.Tree) handler.Outcome {
	name, _ := args.String("name")
	return handler.Value(greeting{Name: name})
}

func exportHandler(c *handler.Context, _ params.Tree) handler.Outcome {
	c.SetContentType("text/plain; charset=utf-8")
	c.ForceDownload("notes.txt")
	for _, n := range sessionNotes(c) {
		c.Println(n)
	}
	return handler.Done()
}

func sessionNotes(c *handler.Context) []string {
	s := c.Session()
	if s == nil {
		return nil
	}
	raw, ok := s.Get(notesField)
	if !ok {
		return nil
	}
	var notes []string
	switch v := raw.(type) {
	case []string:
		notes = append(notes, v...)
	case []any:
		for _, n := range v {
			if str, ok := n.(string); ok {
				notes = append(notes, str)
			}
		}
	}
	return notes
}
