package dispatch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/dmitrymomot/pagekit/core/box"
	"github.com/dmitrymomot/pagekit/core/capture"
	"github.com/dmitrymomot/pagekit/core/cookie"
	"github.com/dmitrymomot/pagekit/core/diag"
	"github.com/dmitrymomot/pagekit/core/handler"
	"github.com/dmitrymomot/pagekit/core/logger"
	"github.com/dmitrymomot/pagekit/core/params"
	"github.com/dmitrymomot/pagekit/core/router"
	"github.com/dmitrymomot/pagekit/core/session"
)

const defaultContentType = "text/html; charset=utf-8"

// resolved is a request matched to its handler.
type resolved struct {
	handler *handler.Handler
	route   string
	action  string
	args    params.Tree
	uploads []params.Upload
	raw     bool
}

// response is what gets serialized once the pipeline is done.
type response struct {
	status      int
	contentType string
	download    string
	location    string
	header      http.Header
}

// ServeHTTP runs the dispatch pipeline for one request.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := d.now()
	resp := response{status: http.StatusOK, contentType: defaultContentType}
	var route string

	defer func() {
		if v := recover(); v != nil {
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", v)
			}
			d.logger.ErrorContext(r.Context(), "dispatch panicked", logger.Error(err), logger.Stack())
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			d.observe(r, route, http.StatusInternalServerError, start)
		}
	}()

	ctx := d.capture.NewScope(r.Context())
	defer d.capture.Release(ctx)
	if err := d.capture.Start(ctx, capture.NewSink(capture.Binary)); err != nil {
		panic(err)
	}

	method := r.Method
	if method == http.MethodHead {
		method = http.MethodGet
	}

	sess, failure := d.loadSession(ctx, r)
	if d.hooks.Before != nil {
		d.hooks.Before(r, sess)
	}

	var res resolved
	if failure == nil {
		res, failure = d.resolve(r, method)
		route = res.route
	}
	if failure == nil && !res.handler.AllowGuests && d.guest != nil && d.guest(r, sess) {
		failure = handler.NewForbiddenError("You must be logged in to access this page")
	}

	if failure == nil {
		hc := handler.NewContext(ctx, r,
			handler.WithSession(sess),
			handler.WithCapture(d.capture),
			handler.WithUploads(res.uploads),
		)
		result := handler.Invoke(hc, res.handler, res.args,
			handler.WithViews(d.views),
			handler.WithRawData(res.raw),
		)

		switch result.Kind {
		case handler.KindFailure:
			failure = result.Err
		case handler.KindRedirect:
			resp.status = http.StatusFound
			resp.location = result.Location
		default:
			resp.status = hc.Status()
			resp.contentType = hc.ContentType()
			resp.download = hc.Download()
			resp.header = hc.Header()
			_, _ = d.capture.Write(ctx, result.Body)
		}
	}

	if failure != nil {
		resp = response{status: failure.StatusCode(), contentType: defaultContentType}
		if top := d.capture.Top(ctx); top != nil {
			top.Reset()
		}
		d.renderError(ctx, failure)
		d.logFailure(r, res, failure)
	}

	body, err := d.capture.End(ctx)
	if err != nil {
		panic(err)
	}
	if resp.location != "" {
		body = nil
	}

	d.writeResponse(w, r, sess, resp, body)

	if d.hooks.After != nil {
		d.hooks.After(r, resp.status)
	}
	d.observe(r, route, resp.status, start)
	d.logger.LogAttrs(r.Context(), slog.LevelDebug, "request dispatched",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Route(res.route),
		logger.Action(res.action),
		logger.StatusCode(resp.status),
		logger.BytesOut(int64(len(body))),
		logger.Elapsed(start),
	)
}

// loadSession restores the client session named by its cookie, or starts a new one.
// The returned session is usable even when persisting it failed.
func (d *Dispatcher) loadSession(ctx context.Context, r *http.Request) (*session.Session, *handler.Error) {
	if d.store == nil {
		return nil, nil
	}

	key, err := d.cookies.Read(r, d.cookieName)
	if err != nil && !errors.Is(err, cookie.ErrCookieNotFound) {
		d.logger.WarnContext(ctx, "rejected session cookie", logger.Error(err))
	}
	if err != nil || !session.ValidKey(key) {
		if key, err = d.store.GenerateKey(); err != nil {
			return nil, handler.Classify(err)
		}
	}

	sess, err := d.store.Load(ctx, key)
	return sess, handler.Classify(err)
}

// resolve builds the argument tree of r and finds its handler.
func (d *Dispatcher) resolve(r *http.Request, method string) (resolved, *handler.Error) {
	var res resolved

	pairs, err := params.SplitQuery(r.URL.RawQuery)
	if err != nil {
		return res, handler.Classify(err)
	}
	if err := params.CheckReserved(pairs, d.formPrefix); err != nil {
		return res, handler.Classify(err)
	}
	args, err := params.Parse(pairs)
	if err != nil {
		return res, handler.Classify(err)
	}

	if r.Method == http.MethodPost {
		form, err := params.ParseForm(r, d.maxMemory)
		if err != nil {
			return res, handler.Classify(err)
		}
		fields, err := params.Parse(form.Pairs)
		if err != nil {
			return res, handler.Classify(err)
		}
		if err := args.Merge(fields, d.formPrefix); err != nil {
			return res, handler.Classify(err)
		}
		res.uploads = form.Uploads
	}

	actionKey := "action"
	if !args.Has(actionKey) {
		actionKey = d.formPrefix + "action"
	}
	var hint string
	if v, ok := args[actionKey]; ok {
		str, isString := v.(string)
		if !isString {
			return res, handler.BadRequest("Invalid value for request argument: %s", actionKey)
		}
		hint = str
	}

	path, err := router.NormalizePath(r.URL.EscapedPath())
	if err != nil {
		return res, handler.Classify(err)
	}

	match, err := d.routes.Match(method, r.URL.EscapedPath(), hint)
	switch {
	case errors.Is(err, router.ErrNotFound):
	case err != nil:
		return res, handler.Classify(err)
	default:
		if match.ActionConsumed {
			args.Delete(actionKey)
			res.action = match.Route.Action
		}

		names := make([]string, 0, len(match.Params))
		for name := range match.Params {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if args.Has(name) {
				return res, handler.NewParameterError("Duplicate key in request: "+name, params.ErrCollision)
			}
			args[name] = match.Params[name]
		}
	}

	if d.hooks.Preprocess != nil {
		if args, err = d.hooks.Preprocess(r, args); err != nil {
			return res, handler.Classify(err)
		}
	}

	if match.Route == nil {
		return res, handler.NewRoutingError(method, path, hint)
	}

	res.handler = match.Route.Handler
	res.route = match.Route.Pattern
	res.raw = args.Delete(handler.RawDataKey)
	res.args = args
	return res, nil
}

// renderError replaces the captured body with the diagnostic for e.
func (d *Dispatcher) renderError(ctx context.Context, e *handler.Error) {
	w := d.capture.Writer(ctx)

	var err error
	if e.Class == handler.ClassUnhandled {
		cause := e.Err
		if cause == nil {
			cause = e
		}
		err = diag.Unhandled(w, d.basePath, cause, e.Stack)
	} else {
		err = box.New(box.Error, e.Title, e.Body()).Render(w)
	}

	if err != nil {
		d.logger.ErrorContext(ctx, "failed to render error body", logger.Error(err))
		_, _ = fmt.Fprintf(w, "<pre>%s</pre>", html.EscapeString(e.Error()))
	}
}

func (d *Dispatcher) logFailure(r *http.Request, res resolved, e *handler.Error) {
	level := slog.LevelInfo
	if e.StatusCode() >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	d.logger.LogAttrs(r.Context(), level, "request failed",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Route(res.route),
		logger.Kind(e.Class.String()),
		logger.StatusCode(e.StatusCode()),
		logger.Error(e),
	)
}

// writeResponse sends headers, the session cookie and body.
func (d *Dispatcher) writeResponse(w http.ResponseWriter, r *http.Request, sess *session.Session, resp response, body []byte) {
	h := w.Header()
	h.Set("Content-Type", resp.contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Last-Modified", d.now().UTC().Format(http.TimeFormat))
	if resp.download != "" {
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": resp.download}))
	}
	if resp.location != "" {
		h.Set("Location", resp.location)
	}
	for name, values := range resp.header {
		h[name] = values
	}

	if sess != nil {
		err := d.cookies.Write(w, d.cookieName, sess.Key(), cookie.WithMaxAge(int(d.cookieTTL/time.Second)))
		if err != nil {
			d.logger.ErrorContext(r.Context(), "failed to set session cookie", logger.Error(err))
		}
	}

	w.WriteHeader(resp.status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (d *Dispatcher) observe(r *http.Request, route string, status int, start time.Time) {
	if d.metrics == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	d.metrics.ObserveRequest(r.Method, route, status, d.now().Sub(start))
}
