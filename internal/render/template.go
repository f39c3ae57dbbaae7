package render

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; background: #0f1117; color: #e4e4e7; margin: 0; padding: 24px; }
.tabs, .filters, .stats { display: flex; gap: 8px; margin-bottom: 12px; }
.tab { padding: 6px 12px; border-radius: 6px; background: #1c1f2a; color: #a1a1aa; }
.tab.active { background: #6366f1; color: #fff; }
.stat { background: #1c1f2a; border-radius: 8px; padding: 8px 14px; }
.stat b { display: block; font-size: 20px; }
.card { background: #161922; border: 1px solid #262a36; border-radius: 10px; padding: 14px; margin-bottom: 10px; }
.card h3 { margin: 0 0 6px; font-size: 15px; }
.card a { color: #e4e4e7; text-decoration: none; }
.meta { color: #71717a; font-size: 12px; display: flex; gap: 12px; flex-wrap: wrap; }
.badge { padding: 2px 8px; border-radius: 4px; font-size: 11px; background: #262a36; }
.conf-bar { height: 4px; background: #262a36; border-radius: 2px; width: 80px; display: inline-block; }
.conf-fill { height: 4px; border-radius: 2px; display: block; }
.conf-high { background: #22c55e; } .conf-med { background: #eab308; } .conf-low { background: #ef4444; }
.fresh-urgent { color: #ef4444; } .fresh-very-fresh { color: #f97316; } .fresh-fresh { color: #eab308; }
.fresh-ok { color: #22c55e; } .fresh-hurry { color: #a1a1aa; } .fresh-stale { color: #52525b; }
.placeholder { text-align: center; color: #666; padding: 40px; }
.error { color: #ef4444; padding: 20px; }
.notice { background: #1e293b; border-left: 3px solid #6366f1; padding: 8px 12px; margin-bottom: 8px; }
footer { color: #52525b; font-size: 11px; margin-top: 24px; }
</style>
</head>
<body>
<nav class="tabs">{{range .Modes}}<span class="tab{{if .Active}} active{{end}}" data-mode="{{.Key}}">{{.Label}}</span>{{end}}</nav>
{{range .Notices}}<div class="notice">{{esc .}}</div>{{end}}
{{if .Status}}<div class="meta">{{esc .Status}}</div>{{end}}
<div class="filters">{{range .Filters}}<span class="tab{{if .Active}} active{{end}}" data-category="{{.Key}}">{{.Label}}</span>{{end}}</div>
{{if .Stats}}<div class="stats">{{range .Stats}}<div class="stat"><b>{{.Value}}</b>{{.Label}}</div>{{end}}</div>{{end}}
<main id="results">
{{- if .ErrMsg}}
<div class="error">{{esc .ErrMsg}}<br><small>{{esc .ErrHint}}</small></div>
{{- else if .Results}}
{{- if .Results.Placeholder}}
<div class="placeholder">{{.Results.Placeholder}}</div>
{{- end}}
{{- range .Results.Posts}}
<article class="card">
<h3><a href="{{.URL}}" target="_blank" rel="noopener">{{esc .Title}}</a></h3>
<p>{{esc .Text}}</p>
<div class="meta">
<span class="badge {{.Category}}">{{.Label}}</span>
<span>&#11014; {{.Score}}</span><span>&#128172; {{.Comments}}</span><span>{{.Date}}</span>
<span class="conf-bar"><span class="conf-fill conf-{{.Confidence}}" style="width: {{printf "%.1f" .BarWidth}}%"></span></span>
<span>{{.Percent}}%</span>
<span>{{.ScoreLine}}</span>
</div>
</article>
{{- end}}
{{- range .Results.Tasks}}
<article class="card">
<h3><a href="{{.URL}}" target="_blank" rel="noopener">{{esc .Title}}</a></h3>
<p>{{esc .Text}}</p>
<div class="meta">
<span class="badge {{.Category}}">{{.Label}}</span>
<span class="fresh-{{.Freshness}}">{{.FreshnessLabel}}</span>
<span>{{esc .Subreddit}}</span>{{if .Author}}<span>{{esc .Author}}</span>{{end}}
{{if .Budget}}<span class="badge">{{.Budget}}</span>{{end}}
<span class="conf-bar"><span class="conf-fill conf-{{.Confidence}}" style="width: {{printf "%.1f" .BarWidth}}%"></span></span>
<span>{{.Percent}}%</span>
<span>{{.ScoreLine}}</span>
</div>
</article>
{{- end}}
{{- end}}
</main>
<footer>Generated {{.Generated}}{{if .Busy}} &middot; request in flight{{end}}</footer>
</body>
</html>
`
