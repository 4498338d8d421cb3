package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/solarutah/solarform/templates"
)

// ErrorResponse logs an error and renders an error page with the given message,
// returning the given status code to the user.
func (ws *Server) ErrorResponse(w http.ResponseWriter, status int, message string) {
	ws.log.Warn("Error response", "status", status, "message", message)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	tmpl := template.New("layout")
	tmpl, err := tmpl.Parse(templates.Layout)
	if err != nil {
		tmpl = template.New("content")
	}
	tmpl, err = tmpl.Parse(templates.Fail)
	if err != nil {
		w.Write([]byte(message))
		return
	}
	errinfo := struct {
		StatusCode int
		StatusText string
		Message    string
	}{
		status,
		http.StatusText(status),
		message,
	}
	if err := tmpl.Execute(w, &errinfo); err != nil {
		ws.log.Error("Error rendering fail page", "error", err)
	}
}

// Server implements the web server for the form service.
type Server struct {
	*http.Server
	Router   *mux.Router
	listener net.Listener
	log      *slog.Logger
}

// New returns a web Server with an initialised mux.Router and http.Server
// listening on the given port. Port 0 picks a free port on Start.
func New(port uint16) *Server {
	srv := new(Server)
	srv.Router = new(mux.Router)
	httpsrv := new(http.Server)
	httpsrv.Handler = srv.Router

	httpsrv.Addr = fmt.Sprintf(":%d", port)
	// Good practice to set timeouts to avoid Slowloris attacks.
	httpsrv.WriteTimeout = time.Second * 15
	httpsrv.ReadTimeout = time.Second * 15
	httpsrv.IdleTimeout = time.Second * 60
	srv.Server = httpsrv
	srv.log = slog.Default()
	return srv
}

// SetLogger replaces the server's logger.
func (ws *Server) SetLogger(l *slog.Logger) {
	if l != nil {
		ws.log = l
	}
}

// Start opens the listening socket and runs the embedded web server's Serve
// method in a goroutine. It returns once the socket is bound, so a port that
// is already in use is reported here. Use WaitForInterrupt() or implement
// your own blocking function to wait for any other stop condition.
func (ws *Server) Start() error {
	ln, err := net.Listen("tcp", ws.Addr)
	if err != nil {
		return err
	}
	ws.listener = ln
	go func() {
		if err := ws.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.log.Error("Web server stopped", "error", err)
		}
	}()
	return nil
}

// Address returns the address the server listens on, or the configured
// address if it has not been started.
func (ws *Server) Address() string {
	if ws.listener != nil {
		return ws.listener.Addr().String()
	}
	return ws.Addr
}

// Stop gracefully stops the web service.
func (ws *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	// Gracefully shut down, waiting for the timeout deadline for connections to close.
	if err := ws.Shutdown(ctx); err != nil {
		ws.log.Warn("Web server shutdown", "error", err)
	}
}
