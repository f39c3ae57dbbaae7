package main

import (
	"fmt"
	"io"
	"strings"

	"huntdash/internal/present"
	"huntdash/internal/render"
)

// console is the surface of one-shot commands. It keeps a render.Page for
// --html and prints notices, status lines and errors as they happen.
// Results are printed by the command once filters have been applied.
type console struct {
	*render.Page
	out io.Writer
	err io.Writer
}

func newConsole(title string, out, errOut io.Writer) *console {
	return &console{Page: render.NewPage(title), out: out, err: errOut}
}

func (c *console) Notify(msg string) {
	c.Page.Notify(msg)
	fmt.Fprintln(c.out, present.SanitizeTerminal(msg))
}

func (c *console) Status(msg string) {
	c.Page.Status(msg)
	if msg != "" {
		fmt.Fprintln(c.out, present.SanitizeTerminal(msg))
	}
}

func (c *console) RenderError(msg, hint string) {
	c.Page.RenderError(msg, hint)
	fmt.Fprintln(c.err, present.SanitizeTerminal(msg))
	if hint != "" {
		fmt.Fprintln(c.err, hint)
	}
}

func printResults(w io.Writer, r present.Results) {
	if r.Placeholder != "" {
		fmt.Fprintln(w, r.Placeholder)
		return
	}
	for i, p := range r.Posts {
		fmt.Fprintf(w, "%2d. [%s %d%%] %s\n", i+1, labelOr(p.Label, p.Category), p.Percent, clean(p.Title))
		fmt.Fprintf(w, "    %s | ↑%d | %d comments | %s\n", p.URL, p.Score, p.Comments, p.ScoreLine)
	}
	for i, t := range r.Tasks {
		extra := []string{t.Subreddit}
		if t.Budget != "" {
			extra = append(extra, t.Budget)
		}
		if t.FreshnessLabel != "" {
			extra = append(extra, t.FreshnessLabel)
		}
		fmt.Fprintf(w, "%2d. [%s %d%%] %s\n", i+1, labelOr(t.Label, t.Category), t.Percent, clean(t.Title))
		fmt.Fprintf(w, "    %s | %s | %s\n", t.URL, strings.Join(extra, " | "), t.ScoreLine)
	}
}

func labelOr(label, category string) string {
	if label != "" {
		return label
	}
	return clean(category)
}

func clean(s string) string {
	return strings.ReplaceAll(present.SanitizeTerminal(s), "\n", " ")
}
