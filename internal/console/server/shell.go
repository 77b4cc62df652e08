package server

import (
	_ "embed"
	"net/http"
)

//go:embed web/index.html
var shellHTML []byte

// serveShell отдает страницу, которая зеркалит документ консоли в DOM.
func (s *ConsoleServer) serveShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(shellHTML); err != nil {
		s.logger.Debug("failed to write shell")
	}
}
