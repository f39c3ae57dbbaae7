package ui

import (
	"github.com/charmbracelet/lipgloss"

	"huntdash/internal/present"
)

type Styles struct {
	Base        lipgloss.Style
	Title       lipgloss.Style
	Status      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	Hint        lipgloss.Style
	Placeholder lipgloss.Style
	Card        lipgloss.Style
	CardActive  lipgloss.Style
	Meta        lipgloss.Style
	Control     lipgloss.Style
	ControlBusy lipgloss.Style
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	Confidence  map[present.ConfidenceLevel]lipgloss.Style
	Freshness   map[present.Freshness]lipgloss.Style
	Category    map[string]lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")).Underline(true)
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Meta = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		s.Card = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("238")).PaddingLeft(1)
		s.CardActive = s.Card.Copy().BorderForeground(lipgloss.Color("81"))
		s.Control = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.ControlBusy = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27")).Underline(true)
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Meta = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
		s.Card = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("250")).PaddingLeft(1)
		s.CardActive = s.Card.Copy().BorderForeground(lipgloss.Color("27"))
		s.Control = lipgloss.NewStyle()
		s.ControlBusy = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	s.Error = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	s.Hint = s.Help.Copy().Italic(true)
	s.Placeholder = s.Help.Copy().Italic(true).Padding(1, 2)
	s.Confidence = map[present.ConfidenceLevel]lipgloss.Style{
		present.ConfidenceHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		present.ConfidenceMed:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		present.ConfidenceLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
	// freshness colours, most urgent first
	fresh := []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
	s.Freshness = map[present.Freshness]lipgloss.Style{}
	for i, f := range present.FreshnessTiers() {
		if i < len(fresh) {
			s.Freshness[f] = fresh[i]
		} else {
			s.Freshness[f] = lipgloss.NewStyle().Faint(true)
		}
	}
	s.Category = map[string]lipgloss.Style{
		"product_need":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"worth_looking":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		"personal_issue": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		"unclear":        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"skill_match":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"maybe_match":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		"irrelevant":     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		"danger":         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
	return s
}

// category styles an unknown category plainly.
func (s Styles) category(c string) lipgloss.Style {
	if st, ok := s.Category[c]; ok {
		return st
	}
	return s.Meta
}
