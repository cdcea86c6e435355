package router

import (
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"strings"

	"mdbase/core/validator"
)

// HandlerFunc is the signature of all route handlers.
type HandlerFunc func(c *Context) error

// MiddlewareFunc wraps a handler with cross-cutting behavior.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Context carries the request, the response writer and per-request values
// through the handler chain.
type Context struct {
	Request *http.Request
	Writer  *ResponseWriter

	params map[string]string
	values map[string]any
}

// ResponseWriter records the status code written to the client.
type ResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *ResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Status returns the status code sent so far, defaulting to 200.
func (w *ResponseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// JSON writes obj as a JSON response with the given status code.
func (c *Context) JSON(status int, obj any) error {
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Writer.WriteHeader(status)
	return json.NewEncoder(c.Writer).Encode(obj)
}

// Status writes a bare status code.
func (c *Context) Status(status int) {
	c.Writer.WriteHeader(status)
}

// Redirect sends an HTTP redirect to location.
func (c *Context) Redirect(status int, location string) error {
	http.Redirect(c.Writer, c.Request, location, status)
	return nil
}

// Param returns a path parameter (e.g. ":id") by name.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Query returns a URL query parameter by name.
func (c *Context) Query(name string) string {
	return c.Request.URL.Query().Get(name)
}

// DefaultQuery returns a query parameter or fallback when absent.
func (c *Context) DefaultQuery(name, fallback string) string {
	if v := c.Request.URL.Query().Get(name); v != "" {
		return v
	}
	return fallback
}

// FormValue returns a form field from a multipart or urlencoded body.
func (c *Context) FormValue(name string) string {
	return c.Request.FormValue(name)
}

// FormFile returns the first uploaded file for the field name.
func (c *Context) FormFile(name string) (*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	_, header, err := c.Request.FormFile(name)
	return header, err
}

// ShouldBindJSON decodes the request body into obj and validates its
// binding tags.
func (c *Context) ShouldBindJSON(obj any) error {
	decoder := json.NewDecoder(c.Request.Body)
	if err := decoder.Decode(obj); err != nil {
		return err
	}
	return validator.Struct(obj)
}

// Set stores a per-request value (used by middleware).
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Get retrieves a per-request value.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetString returns a stored string value or "".
func (c *Context) GetString(key string) string {
	if v, ok := c.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUint returns a stored uint value or 0.
func (c *Context) GetUint(key string) uint {
	if v, ok := c.values[key]; ok {
		if u, ok := v.(uint); ok {
			return u
		}
	}
	return 0
}

// GetBool returns a stored bool value or false.
func (c *Context) GetBool(key string) bool {
	if v, ok := c.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// ClientIP derives the caller address, honoring X-Forwarded-For.
func (c *Context) ClientIP() string {
	if forwarded := c.Request.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := c.Request.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
