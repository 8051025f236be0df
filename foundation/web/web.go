// Package web is a thin wrapper around httptreemux that adds per-request
// trace IDs, timing, JSON encode/decode helpers and a shutdown-error
// signal any handler can return to abort the whole process cleanly. This
// is the node service's only HTTP dependency; the consensus/ledger
// packages never import it.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/dimfeld/httptreemux/v5"
	"github.com/google/uuid"
)

// Handler is the signature every route handler implements. Returning an
// error lets the App's central error handling decide the HTTP response.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// App wraps httptreemux.ContextMux with application-wide middleware and a
// shutdown channel handlers can use to request the process stop.
type App struct {
	mux      *httptreemux.ContextMux
	shutdown chan os.Signal
}

// NewApp constructs an App. shutdown is the same channel main's signal
// handling listens on; a handler returning a shutdownError writes to it.
func NewApp(shutdown chan os.Signal) *App {
	return &App{
		mux:      httptreemux.NewContextMux(),
		shutdown: shutdown,
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Handle registers a route, wrapping handler with trace-ID injection and
// a uniform error-to-response translation.
func (a *App) Handle(method, group, path string, handler Handler) {
	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := setValues(r.Context(), &Values{
			TraceID: uuid.NewString(),
			Now:     time.Now(),
		})

		if err := handler(ctx, w, r); err != nil {
			if isShutdownError(err) {
				select {
				case a.shutdown <- syscall.SIGTERM:
				default:
				}
			}

			RespondError(ctx, w, err)
		}
	}

	finalPath := path
	if group != "" {
		finalPath = "/" + group + path
	}

	a.mux.Handle(method, finalPath, h)
}

// ----------------------------------------------------------------------------

// Values carries per-request metadata through the context.
type Values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

type ctxKey int

const valuesKey ctxKey = 1

func setValues(ctx context.Context, v *Values) context.Context {
	return context.WithValue(ctx, valuesKey, v)
}

// GetValues returns the Values stashed on ctx by the App's routing layer.
func GetValues(ctx context.Context) (*Values, error) {
	v, ok := ctx.Value(valuesKey).(*Values)
	if !ok {
		return nil, errors.New("web: values missing from context")
	}
	return v, nil
}

// Param returns a named path parameter, or "" if absent.
func Param(r *http.Request, name string) string {
	return httptreemux.ContextParams(r.Context())[name]
}

// ----------------------------------------------------------------------------

// Respond marshals data as JSON and writes it with statusCode.
func Respond(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	if v, err := GetValues(ctx); err == nil {
		v.StatusCode = statusCode
	}

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	_, err = w.Write(jsonData)
	return err
}

// Decode unmarshals the request body into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ----------------------------------------------------------------------------

type shutdownError struct {
	message string
}

func (e *shutdownError) Error() string {
	return e.message
}

// NewShutdownError marks err as fatal to the running process: the App's
// handler wrapper will signal main to begin a graceful shutdown.
func NewShutdownError(message string) error {
	return &shutdownError{message: message}
}

func isShutdownError(err error) bool {
	var se *shutdownError
	return errors.As(err, &se)
}

// RequestError carries an HTTP status code alongside the underlying error,
// letting handlers distinguish client mistakes (400) from the default 500.
type RequestError struct {
	Err    error
	Status int
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

// NewRequestError wraps err with the HTTP status it should be reported as.
func NewRequestError(err error, status int) error {
	return &RequestError{Err: err, Status: status}
}

// RespondError writes err as a JSON error response, honoring the status
// code of a RequestError and falling back to 500 for anything else.
func RespondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		status = reqErr.Status
	}

	resp := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}

	_ = Respond(ctx, w, resp, status)
}
