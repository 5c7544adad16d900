package params

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxMemory bounds the bytes read from a form body (10MB).
const DefaultMaxMemory = 10 << 20

// Upload is a file part of a multipart body.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is a decoded request body.
type Form struct {
	// Pairs are the body fields in arrival order.
	// File parts contribute their filename as the value.
	Pairs   []Pair
	Uploads []Upload
}

// ParseForm reads a urlencoded or multipart body without reordering its fields.
// A request without a body or content type yields an empty form.
func ParseForm(r *http.Request, maxMemory int64) (Form, error) {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	contentType := r.Header.Get("Content-Type")
	if r.Body == nil || r.Body == http.NoBody || contentType == "" {
		return Form{}, nil
	}

	mediaType, ctParams, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Form{}, fmt.Errorf("%w: malformed content type", ErrFailedToParseForm)
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		return parseURLEncoded(r.Body, maxMemory)
	case strings.HasPrefix(mediaType, "multipart/form-data"):
		boundary, ok := ctParams["boundary"]
		if !ok || !validateBoundary(boundary) {
			return Form{}, fmt.Errorf("%w: invalid boundary parameter", ErrFailedToParseForm)
		}
		return parseMultipart(r, maxMemory)
	default:
		return Form{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

func parseURLEncoded(body io.Reader, maxMemory int64) (Form, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxMemory+1))
	if err != nil {
		return Form{}, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
	}
	if int64(len(raw)) > maxMemory {
		return Form{}, fmt.Errorf("%w: body exceeds %d bytes", ErrFailedToParseForm, maxMemory)
	}

	pairs, err := SplitQuery(string(raw))
	if err != nil {
		return Form{}, errors.Join(ErrFailedToParseForm, err)
	}
	return Form{Pairs: pairs}, nil
}

func parseMultipart(r *http.Request, maxMemory int64) (Form, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return Form{}, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
	}

	var form Form
	remaining := maxMemory
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return Form{}, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, remaining+1))
		_ = part.Close()
		if err != nil {
			return Form{}, fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
		}
		remaining -= int64(len(data))
		if remaining < 0 {
			return Form{}, fmt.Errorf("%w: body exceeds %d bytes", ErrFailedToParseForm, maxMemory)
		}

		if filename := part.FileName(); filename != "" {
			form.Pairs = append(form.Pairs, P(name, filename))
			form.Uploads = append(form.Uploads, Upload{
				Field:       name,
				Filename:    filename,
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			})
			continue
		}
		form.Pairs = append(form.Pairs, P(name, string(data)))
	}
}

// validateBoundary rejects boundaries that would break multipart parsing.
func validateBoundary(boundary string) bool {
	if boundary == "" || len(boundary) > 100 {
		return false
	}
	return !strings.ContainsAny(boundary, "\x00\r\n")
}
