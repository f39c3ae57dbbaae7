package present

import "huntdash/internal/model"

// PostView is one demand card. Text fields hold display text that has been
// truncated but not escaped; each surface escapes for its own medium.
type PostView struct {
	Title      string
	URL        string
	Text       string
	Category   string
	Label      string
	Confidence ConfidenceLevel
	Percent    int
	BarWidth   float64
	Score      int
	Comments   int
	Date       string
	ScoreLine  string
}

// TaskView is one task card.
type TaskView struct {
	Title          string
	URL            string
	Text           string
	Category       string
	Label          string
	Confidence     ConfidenceLevel
	Percent        int
	BarWidth       float64
	Freshness      Freshness
	FreshnessLabel string
	Budget         string
	Subreddit      string
	Author         string
	Score          int
	Comments       int
	ScoreLine      string
}

// Results is what the result area shows: cards for one mode, or a
// placeholder when there are none.
type Results struct {
	Mode        model.Mode
	Posts       []PostView
	Tasks       []TaskView
	Placeholder string
}

func (r Results) Len() int {
	if r.Mode == model.ModeTask {
		return len(r.Tasks)
	}
	return len(r.Posts)
}

const (
	NoDemandResults = "No results found"
	NoTaskResults   = "No TASK posts found"
)

func BuildPostView(p model.Post) PostView {
	return PostView{
		Title:      p.Title,
		URL:        p.URL,
		Text:       Truncate(p.Text, DemandTextLimit),
		Category:   string(p.Category),
		Label:      DemandLabel(p.Category),
		Confidence: ConfidenceTier(p.Confidence),
		Percent:    Percent(p.Confidence),
		BarWidth:   BarWidth(p.Confidence),
		Score:      p.Score,
		Comments:   p.NumComments,
		Date:       FormatDate(p.Created),
		ScoreLine:  demandScoreLine(p),
	}
}

func BuildTaskView(t model.TaskPost) TaskView {
	author := ""
	if t.Author != "" {
		author = "u/" + t.Author
	}
	return TaskView{
		Title:          t.Title,
		URL:            t.URL,
		Text:           Truncate(t.Text, TaskTextLimit),
		Category:       string(t.TaskCategory),
		Label:          TaskLabel(t.TaskCategory),
		Confidence:     ConfidenceTier(t.Confidence),
		Percent:        Percent(t.Confidence),
		BarWidth:       BarWidth(t.Confidence),
		Freshness:      FreshnessTier(t.FreshnessMinutes),
		FreshnessLabel: t.FreshnessLabel,
		Budget:         Budget(t.Budget),
		Subreddit:      "r/" + t.Subreddit,
		Author:         author,
		Score:          t.Score,
		Comments:       t.NumComments,
		ScoreLine:      taskScoreLine(t),
	}
}

// DemandResults builds the result area for a demand subset, in order.
func DemandResults(posts []model.Post) Results {
	r := Results{Mode: model.ModeDemand}
	if len(posts) == 0 {
		r.Placeholder = NoDemandResults
		return r
	}
	r.Posts = make([]PostView, len(posts))
	for i, p := range posts {
		r.Posts[i] = BuildPostView(p)
	}
	return r
}

func TaskResults(tasks []model.TaskPost) Results {
	r := Results{Mode: model.ModeTask}
	if len(tasks) == 0 {
		r.Placeholder = NoTaskResults
		return r
	}
	r.Tasks = make([]TaskView, len(tasks))
	for i, t := range tasks {
		r.Tasks[i] = BuildTaskView(t)
	}
	return r
}
