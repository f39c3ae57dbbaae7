package mockapi

import (
	"fmt"
	"time"

	"huntdash/internal/model"
)

type demandSeed struct {
	id, title, text string
	score, comments int
	ageDays         float64
	category        model.Category
	confidence      float64
	need, personal  float64
}

var demandSeeds = []demandSeed{
	{"mock1", "I wish there was a tool that could automatically organize my bookmarks",
		"I have thousands of bookmarks across different browsers and I can't find anything. Someone should build a cross-browser bookmark manager with AI categorization.",
		156, 42, 3, model.ProductNeed, 0.86, 3, 0},
	{"mock2", "Is there an app that tracks subscription spending automatically?",
		"I'd pay for something that connects to my bank and shows me all my recurring subscriptions in one place. Tired of manually checking statements.",
		89, 23, 5, model.ProductNeed, 0.78, 3, 0},
	{"mock3", "Looking for a tool to manage multiple GitHub accounts",
		"I have personal and work GitHub accounts and switching between them is a pain. Any solution that automates SSH key switching?",
		67, 18, 7, model.WorthLooking, 0.55, 1.5, 0.5},
	{"mock4", "Help me fix my laptop - screen flickering",
		"My laptop screen started flickering yesterday. Can't figure out what's wrong. Please help urgent!",
		12, 8, 2, model.PersonalIssue, 0.81, 0, 3},
	{"mock5", "Can't log in to my account after password reset",
		"I reset my password but now it says invalid credentials. How do I recover my account?",
		5, 3, 1, model.PersonalIssue, 0.74, 0, 2.5},
	{"mock6", "Someone should build a better alternative to Notion for offline use",
		"Notion is great but requires internet. We need a local-first note-taking app with similar features. I'd pay for this.",
		234, 67, 10, model.ProductNeed, 0.92, 4, 0},
	{"mock7", "Why isn't there a simple invoice generator for freelancers?",
		"All invoice tools are overcomplicated. I just want to enter hours, rate, and generate a PDF. That's it.",
		45, 12, 4, model.ProductNeed, 0.69, 2.5, 0},
	{"mock8", "My phone battery drains too fast",
		"Phone only lasts 4 hours now. Already tried factory reset. What else can I do?",
		8, 15, 6, model.Unclear, 0.32, 0.5, 1},
}

// DemandPosts returns the canned demand feed with timestamps relative to now.
func DemandPosts(now time.Time) []model.Post {
	out := make([]model.Post, len(demandSeeds))
	for i, s := range demandSeeds {
		out[i] = model.Post{
			ID:            s.id,
			Title:         s.title,
			URL:           "https://reddit.com/r/SideProject/comments/" + s.id,
			Text:          s.text,
			Score:         s.score,
			NumComments:   s.comments,
			Created:       float64(now.Unix()) - 86400*s.ageDays,
			Category:      s.category,
			Confidence:    s.confidence,
			NeedScore:     s.need,
			PersonalScore: s.personal,
		}
	}
	return out
}

type taskSeed struct {
	id, subreddit, author, title, text string
	ageMinutes                         float64
	category                           model.TaskCategory
	confidence, skill, danger          float64
	budget                             float64
}

var taskSeeds = []taskSeed{
	{"task1", "slavelabour", "dataguy", "[TASK] Scrape 500 product pages into a spreadsheet",
		"Need a Python script that pulls name, price and stock from an e-commerce site and writes CSV. Paying via PayPal.",
		4, model.SkillMatch, 0.91, 4, 0, 40},
	{"task2", "forhire", "startupjane", "[Hiring] Fix a broken Flask API deployment",
		"Our Flask app on a VPS returns 502 after an update. Need someone to debug nginx/gunicorn today.",
		22, model.SkillMatch, 0.8, 3, 0, 75},
	{"task3", "slavelabour", "", "[TASK] Convert a Google Sheet into a small web dashboard",
		"Simple charts, nothing fancy. Budget flexible for the right person.",
		45, model.MaybeMatch, 0.58, 2, 0, 0},
	{"task4", "slavelabour", "artsy", "[TASK] Draw a cartoon avatar of my cat",
		"Looking for a cute cartoon style drawing. Will pay on completion.",
		95, model.Irrelevant, 0.77, 0, 0, 15},
	{"task5", "forhire", "quickcash", "[TASK] Write my online exam, pay upfront via gift card",
		"Need someone to log in to my university account and take an exam. Send gift card code first.",
		200, model.Danger, 0.88, 0, 3, 20},
	{"task6", "slavelabour", "bookworm", "[TASK] Automate renaming of 2000 PDF files",
		"Files need to be renamed from their title metadata. Windows preferred.",
		420, model.MaybeMatch, 0.47, 1.5, 0, 10},
}

// TaskPosts returns the canned task feed, freshest first.
func TaskPosts(now time.Time) []model.TaskPost {
	out := make([]model.TaskPost, len(taskSeeds))
	for i, s := range taskSeeds {
		t := model.TaskPost{
			ID:               s.id,
			Title:            s.title,
			URL:              "https://reddit.com/r/" + s.subreddit + "/comments/" + s.id,
			Text:             s.text,
			Score:            1 + i*3,
			NumComments:      i,
			Subreddit:        s.subreddit,
			Author:           s.author,
			Created:          float64(now.Unix()) - 60*s.ageMinutes,
			TaskCategory:     s.category,
			Confidence:       s.confidence,
			SkillScore:       s.skill,
			DangerScore:      s.danger,
			FreshnessMinutes: s.ageMinutes,
			FreshnessLabel:   freshnessLabel(s.ageMinutes),
		}
		if s.budget > 0 {
			b := s.budget
			t.Budget = &b
		}
		out[i] = t
	}
	return out
}

func freshnessLabel(minutes float64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%.0fm ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%.0fh ago", minutes/60)
	default:
		return fmt.Sprintf("%.0fd ago", minutes/1440)
	}
}
