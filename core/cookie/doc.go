// Package cookie sets and reads HTTP cookies with optional HMAC signing.
//
// The dispatcher uses it for the session cookie. Without secrets cookies are stored as
// plain values; with secrets, Write signs values with HMAC-SHA256 and Read verifies them,
// trying every secret so keys can be rotated by prepending a new one.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")},
//		cookie.WithMaxAge(7*24*3600),
//	)
//	err = m.Write(w, "session", key)
//	key, err := m.Read(r, "session")
//	if errors.Is(err, cookie.ErrInvalidSignature) {
//		// tampered
//	}
//
// MaxAge also sets Expires so clients that ignore Max-Age keep the same lifetime.
package cookie
