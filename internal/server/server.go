// Package server exposes a push table over HTTP for inspection.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/hailam/pawnpush/internal/board"
	"github.com/hailam/pawnpush/internal/render"
)

// Entry is the JSON form of one table entry.
type Entry struct {
	Square  string   `json:"square"`
	Index   int      `json:"index"`
	Color   string   `json:"color"`
	Mask    uint64   `json:"mask"`
	Targets []string `json:"targets"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server serves read-only views of a push table. The table is copied in and
// never written, so handlers share it without locking.
type Server struct {
	router *mux.Router
	table  board.PushTable
}

// New builds the routes over table. Access logs go to logOut; nil means
// stdout.
func New(table board.PushTable, logOut io.Writer) *Server {
	if logOut == nil {
		logOut = os.Stdout
	}
	s := &Server{
		router: mux.NewRouter(),
		table:  table,
	}

	logged := func(next http.Handler) http.Handler {
		return handlers.LoggingHandler(logOut, next)
	}
	s.router.Use(logged)
	s.router.NotFoundHandler = logged(http.HandlerFunc(notFoundHandler))

	s.router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/pushes/{color}", s.rowHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/pushes/{color}/{square}", s.entryHandler).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) rowHandler(w http.ResponseWriter, r *http.Request) {
	c, err := board.ParseColor(mux.Vars(r)["color"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.table.Row(c))
}

func (s *Server) entryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := board.ParseColor(vars["color"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name, ext := vars["square"], ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name, ext = name[:i], name[i+1:]
	}
	sq, err := parseSquare(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mask, err := s.table.Lookup(sq, c)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := render.Options{Size: 400, Labels: true}
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid size: %s", v))
			return
		}
		opts.Size = n
	}

	switch ext {
	case "":
		writeJSON(w, http.StatusOK, newEntry(sq, c, mask))
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		if err := render.WriteSVG(w, sq, mask, opts); err != nil {
			writeError(w, http.StatusInternalServerError, err)
		}
	case "png":
		img, err := render.Image(sq, mask, opts)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Printf("encode png for %s %s: %v", c, sq, err)
		}
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown format: %s", ext))
	}
}

func newEntry(sq board.Square, c board.Color, mask board.Bitboard) Entry {
	targets := make([]string, 0, mask.PopCount())
	for _, t := range mask.Squares() {
		targets = append(targets, t.String())
	}
	return Entry{
		Square:  sq.String(),
		Index:   int(sq),
		Color:   c.String(),
		Mask:    uint64(mask),
		Targets: targets,
	}
}

// parseSquare accepts algebraic names ("e2") or indices ("12").
func parseSquare(s string) (board.Square, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return board.SquareFromIndex(n)
	}
	return board.ParseSquare(strings.ToLower(s))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}
