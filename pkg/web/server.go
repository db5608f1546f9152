package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/tosih/ecux-analyzer/pkg/ecux"
	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/reader"
	"github.com/tosih/ecux-analyzer/pkg/signals"
)

// FileResponse describes one log in the served folder.
type FileResponse struct {
	Name    string  `json:"name"`
	Dialect string  `json:"dialect,omitempty"`
	Samples int     `json:"samples"`
	Rate    float64 `json:"samplesPerSec"`
	Pulls   int     `json:"pulls"`
	Error   string  `json:"error,omitempty"`
}

// ColumnResponse describes one signal of a log.
type ColumnResponse struct {
	ID    string `json:"id"`
	Alias string `json:"alias,omitempty"`
	Unit  string `json:"unit,omitempty"`
	Group string `json:"group,omitempty"`
}

// SignalResponse carries the samples of one signal. NaN samples are null.
type SignalResponse struct {
	File string     `json:"file"`
	ID   string     `json:"id"`
	Unit string     `json:"unit"`
	Run  *int       `json:"run,omitempty"`
	Data []*float64 `json:"data"`
}

// FATSResponse holds the elapsed time of every pull; 0 marks a pull that
// does not cover the RPM span.
type FATSResponse struct {
	File string    `json:"file"`
	From float64   `json:"from"`
	To   float64   `json:"to"`
	Runs []float64 `json:"runs"`
}

// Server serves the logs of one folder.
type Server struct {
	logFolder string
	port      int
	dialect   logformat.Dialect
	profile   models.Profile

	mu   sync.RWMutex
	logs map[string]*ecux.Dataset
	errs map[string]error
}

// NewServer loads every log in path. If path is a file, its folder is served.
// Logs that fail to load are listed with their error.
func NewServer(path string, port int, dialect logformat.Dialect, p models.Profile) (*Server, error) {
	logFolder := path
	if info, err := os.Stat(path); err != nil {
		return nil, err
	} else if !info.IsDir() {
		logFolder = filepath.Dir(path)
	}

	files, err := reader.FindLogs(logFolder)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logFolder: logFolder,
		port:      port,
		dialect:   dialect,
		profile:   p,
		logs:      make(map[string]*ecux.Dataset),
		errs:      make(map[string]error),
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, f := range files {
		g.Go(func() error {
			s.reload(f)
			return nil
		})
	}
	g.Wait()

	if len(files) == 0 {
		pterm.Warning.Println("No .csv logs found in directory")
	} else {
		pterm.Info.Printf("Found %d log(s) in %s\n", len(files), logFolder)
	}
	return s, nil
}

// reload (re)reads one log and replaces what the server holds for it.
func (s *Server) reload(path string) {
	d, err := reader.ReadLog(path, s.dialect, s.profile)
	name := filepath.Base(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		pterm.DefaultLogger.Warn("log not loaded", pterm.DefaultLogger.Args("file", name, "error", err))
		delete(s.logs, name)
		s.errs[name] = err
		return
	}
	delete(s.errs, name)
	s.logs[name] = d
}

// drop forgets a log that was removed from the folder.
func (s *Server) drop(path string) {
	name := filepath.Base(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, name)
	delete(s.errs, name)
}

// names returns the known logs, loaded or not, sorted.
func (s *Server) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.logs)+len(s.errs))
	for n := range s.logs {
		out = append(out, n)
	}
	for n := range s.errs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/mode", s.handleMode)
	mux.HandleFunc("GET /api/files", s.handleFileList)
	mux.HandleFunc("GET /api/columns", s.handleColumns)
	mux.HandleFunc("GET /api/signal", s.handleSignal)
	mux.HandleFunc("GET /api/ranges", s.handleRanges)
	mux.HandleFunc("GET /api/fats", s.handleFATS)
	return mux
}

// Start serves until ctx is cancelled, reloading logs as they change on disk.
func (s *Server) Start(ctx context.Context, open bool) error {
	addr := fmt.Sprintf(":%d", s.port)
	url := fmt.Sprintf("http://localhost%s/api/files", addr)

	pterm.DefaultHeader.WithFullWidth().
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("ECUx Log API Started")

	pterm.Info.Printf("Serving %s at %s\n", s.logFolder, url)
	pterm.Info.Println("Press Ctrl+C to stop the server")
	pterm.Println()

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := s.Watch(ctx); err != nil {
			pterm.Warning.Printf("Not watching %s: %v\n", s.logFolder, err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()

	if open {
		openBrowser(url)
	}
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"logFolder": s.logFolder,
		"fileCount": len(s.names()),
		"dialect":   s.dialect.String(),
		"profile":   s.profile.Name,
	})
}

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	names := s.names()
	fileList := make([]FileResponse, 0, len(names))

	s.mu.RLock()
	for _, name := range names {
		if err, ok := s.errs[name]; ok {
			fileList = append(fileList, FileResponse{Name: name, Error: err.Error()})
			continue
		}
		d := s.logs[name]
		fileList = append(fileList, FileResponse{
			Name:    name,
			Dialect: d.Dialect().String(),
			Samples: d.Len(),
			Rate:    d.SamplesPerSec(),
			Pulls:   len(d.Ranges()),
		})
	}
	s.mu.RUnlock()

	writeJSON(w, fileList)
}

// dataset resolves the "file" query parameter, defaulting to the first log.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (string, *ecux.Dataset, bool) {
	name := r.URL.Query().Get("file")
	if name == "" {
		for _, n := range s.names() {
			if s.loaded(n) != nil {
				name = n
				break
			}
		}
		if name == "" {
			http.Error(w, "No logs available", http.StatusNotFound)
			return "", nil, false
		}
	}

	d := s.loaded(filepath.Base(name))
	if d == nil {
		http.Error(w, fmt.Sprintf("Unknown log %q", name), http.StatusNotFound)
		return "", nil, false
	}
	return filepath.Base(name), d, true
}

func (s *Server) loaded(name string) *ecux.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logs[name]
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	_, d, ok := s.dataset(w, r)
	if !ok {
		return
	}

	var cols []ColumnResponse
	seen := make(map[string]bool)
	for _, id := range d.IDs() {
		if id.Name == "" || seen[id.Name] {
			continue
		}
		seen[id.Name] = true
		cols = append(cols, ColumnResponse{ID: id.Name, Alias: id.Alias, Unit: id.Unit, Group: signals.Group(id.Name)})
	}
	for _, id := range d.Available() {
		if seen[id] {
			continue
		}
		seen[id] = true
		c := d.Lookup(id)
		cols = append(cols, ColumnResponse{ID: id, Unit: c.Unit, Group: signals.Group(id)})
	}
	writeJSON(w, cols)
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	name, d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	id := q.Get("id")
	if id == "" {
		http.Error(w, "id parameter required", http.StatusBadRequest)
		return
	}

	c, err := d.Get(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	resp := SignalResponse{File: name, ID: c.ID, Unit: c.Unit}
	data := c.Data

	if runStr := q.Get("run"); runStr != "" {
		run, err := strconv.Atoi(runStr)
		if err != nil {
			http.Error(w, "Invalid run index", http.StatusBadRequest)
			return
		}
		data, err = d.RangeData(id, run)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		resp.Run = &run
	}

	resp.Data = jsonFloats(data)
	writeJSON(w, resp)
}

func (s *Server) handleRanges(w http.ResponseWriter, r *http.Request) {
	_, d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, d.Ranges())
}

func (s *Server) handleFATS(w http.ResponseWriter, r *http.Request) {
	name, d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	from, err1 := strconv.ParseFloat(q.Get("from"), 64)
	to, err2 := strconv.ParseFloat(q.Get("to"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "from and to must be RPM values", http.StatusBadRequest)
		return
	}
	writeJSON(w, FATSResponse{File: name, From: from, To: to, Runs: d.CalcFATSAll(from, to)})
}

func jsonFloats(v []float64) []*float64 {
	out := make([]*float64, len(v))
	for i := range v {
		if !math.IsNaN(v[i]) && !math.IsInf(v[i], 0) {
			out[i] = &v[i]
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		pterm.DefaultLogger.Debug("response not written", pterm.DefaultLogger.Args("error", err))
	}
}
