// Package mockapi serves a canned classification backend. It backs the
// mockbackend demo binary and the httptest servers used in tests.
package mockapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"huntdash/internal/model"
)

type Options struct {
	IntervalMinutes int
	// Notified reports whether a scan-now notification "was sent".
	Notified bool
	Now      func() time.Time
}

// Server is an http.Handler implementing the backend endpoints the
// dashboard consumes. It keeps scheduler state and the notified-post cache
// in memory.
type Server struct {
	opts Options
	mux  *http.ServeMux

	mu       sync.Mutex
	running  bool
	notified map[string]bool
	hits     map[string]int
	queries  map[string]url.Values
}

func New(opts Options) *Server {
	if opts.IntervalMinutes <= 0 {
		opts.IntervalMinutes = 30
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{
		opts:     opts,
		mux:      http.NewServeMux(),
		notified: map[string]bool{},
		hits:     map[string]int{},
		queries:  map[string]url.Values{},
	}
	s.mux.HandleFunc("/api/health", s.health)
	s.mux.HandleFunc("/api/scan", s.scan)
	s.mux.HandleFunc("/api/tasks", s.tasks)
	s.mux.HandleFunc("/api/tasks/scan-now", s.scanNow)
	s.mux.HandleFunc("/api/tasks/clear-cache", s.clearCache)
	s.mux.HandleFunc("/api/scheduler/start", s.startScheduler)
	s.mux.HandleFunc("/api/scheduler/stop", s.stopScheduler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.queries[r.URL.Path] = r.URL.Query()
	s.mu.Unlock()
	s.mux.ServeHTTP(w, r)
}

// Hits reports how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// LastQuery returns the query string of the latest request to path.
func (s *Server) LastQuery(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[path]
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, model.HealthStatus{Status: "ok"})
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	limit := queryInt(r, "limit", 50)
	posts := DemandPosts(s.opts.Now())
	if limit < len(posts) {
		posts = posts[:max(limit, 0)]
	}
	if kw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("keyword"))); kw != "" && kw != "i wish" {
		posts = filterPosts(posts, func(p model.Post) bool {
			return strings.Contains(strings.ToLower(p.Title+" "+p.Text), kw)
		})
	}
	if len(posts) == 0 {
		writeJSON(w, model.ScanResponse{
			Posts:   []model.Post{},
			Message: "No posts found. Please check subreddit name or keywords.",
		})
		return
	}
	writeJSON(w, model.ScanResponse{Posts: posts, Stats: model.CountStats(posts)})
}

func (s *Server) tasks(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	tasks := TaskPosts(s.opts.Now())
	if subs := r.URL.Query().Get("subreddits"); strings.TrimSpace(subs) != "" {
		want := map[string]bool{}
		for _, sub := range strings.Split(subs, ",") {
			if sub = strings.TrimSpace(sub); sub != "" {
				want[strings.ToLower(sub)] = true
			}
		}
		tasks = filterTasks(tasks, func(t model.TaskPost) bool { return want[strings.ToLower(t.Subreddit)] })
	}
	if limit := queryInt(r, "limit", 50); limit < len(tasks) {
		tasks = tasks[:max(limit, 0)]
	}
	if len(tasks) == 0 {
		writeJSON(w, model.TaskResponse{Posts: []model.TaskPost{}, Message: "No TASK posts found."})
		return
	}
	writeJSON(w, model.TaskResponse{Posts: tasks, Stats: taskStats(tasks)})
}

func (s *Server) scanNow(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	all := TaskPosts(s.opts.Now())
	s.mu.Lock()
	fresh := make([]model.TaskPost, 0, len(all))
	for _, t := range all {
		if t.TaskCategory != model.SkillMatch && t.TaskCategory != model.MaybeMatch {
			continue
		}
		if s.notified[t.ID] {
			continue
		}
		s.notified[t.ID] = true
		fresh = append(fresh, t)
	}
	s.mu.Unlock()
	writeJSON(w, model.ScanNowResult{
		TotalScanned: len(all),
		NewMatches:   len(fresh),
		Notified:     s.opts.Notified && len(fresh) > 0,
		Posts:        fresh,
	})
}

func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.mu.Lock()
	n := len(s.notified)
	s.notified = map[string]bool{}
	s.mu.Unlock()
	writeJSON(w, model.ClearCacheResult{Status: "cleared", Removed: n})
}

func (s *Server) startScheduler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		writeJSON(w, model.SchedulerStatus{Status: "already_running"})
		return
	}
	s.running = true
	interval := s.opts.IntervalMinutes
	writeJSON(w, model.SchedulerStatus{Status: "started", IntervalMinutes: &interval})
}

func (s *Server) stopScheduler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	writeJSON(w, model.SchedulerStatus{Status: "stopped"})
}

// Running reports the scheduler state.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, `{"detail":"Method Not Allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func taskStats(tasks []model.TaskPost) model.TaskStats {
	s := model.TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.TaskCategory {
		case model.SkillMatch:
			s.SkillMatch++
		case model.MaybeMatch:
			s.MaybeMatch++
		case model.Irrelevant:
			s.Irrelevant++
		case model.Danger:
			s.Danger++
		}
	}
	return s
}

func filterPosts(in []model.Post, keep func(model.Post) bool) []model.Post {
	out := in[:0:0]
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func filterTasks(in []model.TaskPost, keep func(model.TaskPost) bool) []model.TaskPost {
	out := in[:0:0]
	for _, t := range in {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
