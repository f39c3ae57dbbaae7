package model

import "strconv"

// Mode selects which feed the dashboard is showing.
type Mode string

const (
	ModeDemand Mode = "demand"
	ModeTask   Mode = "task"
)

// Category is the demand classification assigned by the backend.
type Category string

const (
	ProductNeed   Category = "product_need"
	PersonalIssue Category = "personal_issue"
	WorthLooking  Category = "worth_looking"
	Unclear       Category = "unclear"
)

// Categories returns the demand categories in filter-bar order.
func Categories() []Category {
	return []Category{ProductNeed, PersonalIssue, WorthLooking, Unclear}
}

// TaskCategory is the task classification assigned by the backend.
type TaskCategory string

const (
	SkillMatch TaskCategory = "skill_match"
	MaybeMatch TaskCategory = "maybe_match"
	Irrelevant TaskCategory = "irrelevant"
	Danger     TaskCategory = "danger"
)

// TaskCategories returns the task categories in filter-bar order.
func TaskCategories() []TaskCategory {
	return []TaskCategory{SkillMatch, MaybeMatch, Irrelevant, Danger}
}

// FilterAll is the sentinel category that selects a whole feed.
const FilterAll = "all"

type Post struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Text          string   `json:"text"`
	Score         int      `json:"score"`
	NumComments   int      `json:"num_comments"`
	Created       float64  `json:"created"`
	Category      Category `json:"category"`
	Confidence    float64  `json:"confidence"`
	NeedScore     float64  `json:"need_score"`
	PersonalScore float64  `json:"personal_score"`
}

type TaskPost struct {
	ID               string       `json:"id,omitempty"`
	Title            string       `json:"title"`
	URL              string       `json:"url"`
	Text             string       `json:"text"`
	Score            int          `json:"score"`
	NumComments      int          `json:"num_comments"`
	Subreddit        string       `json:"subreddit"`
	Author           string       `json:"author,omitempty"`
	Created          float64      `json:"created,omitempty"`
	TaskCategory     TaskCategory `json:"task_category"`
	Confidence       float64      `json:"confidence"`
	SkillScore       float64      `json:"skill_score"`
	DangerScore      float64      `json:"danger_score"`
	Budget           *float64     `json:"budget,omitempty"`
	FreshnessMinutes float64      `json:"freshness_minutes"`
	FreshnessLabel   string       `json:"freshness_label,omitempty"`
}

type Stats struct {
	ProductNeeds   int `json:"product_needs"`
	PersonalIssues int `json:"personal_issues"`
	WorthLooking   int `json:"worth_looking,omitempty"`
	Unclear        int `json:"unclear"`
	Total          int `json:"total"`
}

type TaskStats struct {
	SkillMatch int `json:"skill_match"`
	MaybeMatch int `json:"maybe_match"`
	Irrelevant int `json:"irrelevant"`
	Danger     int `json:"danger"`
	Total      int `json:"total"`
}

// ScanResponse is the body of GET /api/scan.
type ScanResponse struct {
	Posts   []Post `json:"posts"`
	Stats   Stats  `json:"stats"`
	Message string `json:"message,omitempty"`
}

// TaskResponse is the body of GET /api/tasks.
type TaskResponse struct {
	Posts   []TaskPost `json:"posts"`
	Stats   TaskStats  `json:"stats"`
	Message string     `json:"message,omitempty"`
}

// SchedulerStatus is returned by the scheduler start/stop endpoints.
type SchedulerStatus struct {
	Status          string `json:"status"`
	IntervalMinutes *int   `json:"interval_minutes,omitempty"`
}

// ScanNowResult is returned by POST /api/tasks/scan-now. The watcher reads
// the same shape from a JSONL file.
type ScanNowResult struct {
	TotalScanned int        `json:"total_scanned"`
	NewMatches   int        `json:"new_matches"`
	Notified     bool       `json:"notified"`
	Posts        []TaskPost `json:"posts,omitempty"`
}

type ClearCacheResult struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}

type HealthStatus struct {
	Status string `json:"status"`
}

// Fields flattens a post into the parameter map used by filter expressions
// and exporters.
func (p Post) Fields() map[string]any {
	return map[string]any{
		"id":             p.ID,
		"title":          p.Title,
		"url":            p.URL,
		"text":           p.Text,
		"score":          float64(p.Score),
		"num_comments":   float64(p.NumComments),
		"created":        p.Created,
		"category":       string(p.Category),
		"confidence":     p.Confidence,
		"need_score":     p.NeedScore,
		"personal_score": p.PersonalScore,
	}
}

func (t TaskPost) Fields() map[string]any {
	budget := 0.0
	if t.Budget != nil {
		budget = *t.Budget
	}
	return map[string]any{
		"id":                t.ID,
		"title":             t.Title,
		"url":               t.URL,
		"text":              t.Text,
		"score":             float64(t.Score),
		"num_comments":      float64(t.NumComments),
		"subreddit":         t.Subreddit,
		"author":            t.Author,
		"created":           t.Created,
		"category":          string(t.TaskCategory),
		"task_category":     string(t.TaskCategory),
		"confidence":        t.Confidence,
		"skill_score":       t.SkillScore,
		"danger_score":      t.DangerScore,
		"budget":            budget,
		"freshness_minutes": t.FreshnessMinutes,
		"freshness_label":   t.FreshnessLabel,
	}
}

// CategoryOf reports the category string a filter compares against.
func (p Post) CategoryOf() string     { return string(p.Category) }
func (t TaskPost) CategoryOf() string { return string(t.TaskCategory) }

// SearchText is the text a free-text query is matched against.
func (p Post) SearchText() string     { return p.Title + "\n" + p.Text }
func (t TaskPost) SearchText() string { return t.Title + "\n" + t.Text + "\n" + t.Author }

// CountStats tallies demand categories the same way the backend does.
func CountStats(posts []Post) Stats {
	s := Stats{Total: len(posts)}
	for _, p := range posts {
		switch p.Category {
		case ProductNeed:
			s.ProductNeeds++
		case PersonalIssue:
			s.PersonalIssues++
		case WorthLooking:
			s.WorthLooking++
		case Unclear:
			s.Unclear++
		}
	}
	return s
}

// ScanNowStats recomputes task stats from a scan-now response. Only the
// match categories are counted; irrelevant and danger are always zero here.
func ScanNowStats(posts []TaskPost) TaskStats {
	s := TaskStats{Total: len(posts)}
	for _, p := range posts {
		switch p.TaskCategory {
		case SkillMatch:
			s.SkillMatch++
		case MaybeMatch:
			s.MaybeMatch++
		}
	}
	return s
}

func (s SchedulerStatus) IntervalLabel() string {
	if s.IntervalMinutes == nil || *s.IntervalMinutes == 0 {
		return "?"
	}
	return strconv.Itoa(*s.IntervalMinutes)
}
