package present

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"huntdash/internal/model"
)

// Body text limits, in runes.
const (
	DemandTextLimit = 150
	TaskTextLimit   = 200
)

const ellipsis = "..."

// Truncate cuts s to max runes and appends an ellipsis only when something
// was actually cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + ellipsis
}

// EscapeHTML makes free text safe to interpolate into markup.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

var terminalControlRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|[\x00-\x08\x0b-\x1f\x7f]`)

// SanitizeTerminal is the terminal counterpart of EscapeHTML: it strips
// escape sequences and control characters so post text cannot repaint
// the screen.
func SanitizeTerminal(s string) string {
	return terminalControlRE.ReplaceAllString(s, "")
}

const dateLayout = "1/2/2006"

// FormatDate renders epoch seconds as an en-US calendar date in the local zone.
func FormatDate(epoch float64) string {
	return FormatDateIn(epoch, time.Local)
}

func FormatDateIn(epoch float64, loc *time.Location) string {
	if math.IsNaN(epoch) || math.IsInf(epoch, 0) {
		return ""
	}
	sec, frac := math.Modf(epoch)
	return time.Unix(int64(sec), int64(frac*1e9)).In(loc).Format(dateLayout)
}

// Percent renders a confidence as a rounded whole percentage.
func Percent(c float64) int {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return int(math.Round(c * 100))
}

// BarWidth is the fill of a confidence bar as a percentage, clamped to [0,100].
func BarWidth(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	return math.Max(0, math.Min(100, c*100))
}

var demandLabels = map[model.Category]string{
	model.ProductNeed:   "Product Need",
	model.PersonalIssue: "Personal Issue",
	model.WorthLooking:  "Worth Looking",
	model.Unclear:       "Unclear",
}

var taskLabels = map[model.TaskCategory]string{
	model.SkillMatch: "Skill Match",
	model.MaybeMatch: "Maybe",
	model.Irrelevant: "Irrelevant",
	model.Danger:     "Danger",
}

// DemandLabel returns "" for categories the dashboard does not know.
func DemandLabel(c model.Category) string { return demandLabels[c] }

func TaskLabel(c model.TaskCategory) string { return taskLabels[c] }

// Number prints a backend number the way it arrived: no trailing zeros.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Budget returns "$<n>" for a present, non-zero budget and "" otherwise.
func Budget(b *float64) string {
	if b == nil || *b == 0 || math.IsNaN(*b) {
		return ""
	}
	return "$" + Number(*b)
}

func demandScoreLine(p model.Post) string {
	return "Need: " + Number(p.NeedScore) + " | Personal: " + Number(p.PersonalScore)
}

func taskScoreLine(t model.TaskPost) string {
	var b strings.Builder
	b.WriteString("Skills: ")
	b.WriteString(Number(t.SkillScore))
	if t.DangerScore > 0 {
		b.WriteString(" | Danger: ")
		b.WriteString(Number(t.DangerScore))
	}
	return b.String()
}
