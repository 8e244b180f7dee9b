package content

import (
	"fmt"
	"strings"
)

// Markdown renders the profile, experience and case study as a markdown
// document for terminal display.
func (s *Site) Markdown() string {
	var b strings.Builder
	p := s.Profile
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Tagline != "" {
		fmt.Fprintf(&b, "_%s_\n\n", p.Tagline)
	}
	if len(s.Titles) > 0 {
		titles := make([]string, 0, len(s.Titles))
		for _, t := range s.Titles {
			titles = append(titles, t.Text)
		}
		fmt.Fprintf(&b, "**%s**\n\n", strings.Join(titles, " · "))
	}
	if p.Email != "" {
		fmt.Fprintf(&b, "- Email: %s\n", p.Email)
	}
	for _, l := range p.Links {
		fmt.Fprintf(&b, "- [%s](%s)\n", l.Label, l.URL)
	}
	b.WriteString("\n")

	if len(s.Experiences) > 0 {
		b.WriteString("## Experience\n\n")
		for _, e := range s.Experiences {
			fmt.Fprintf(&b, "### %s, %s\n\n%s\n\n", e.Title, e.Company, e.Period)
			if e.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", e.Description)
			}
			if len(e.Skills) > 0 {
				fmt.Fprintf(&b, "`%s`\n\n", strings.Join(e.Skills, "` `"))
			}
		}
	}

	cs := s.CaseStudy
	if cs.Name != "" {
		fmt.Fprintf(&b, "## Case study: %s\n\n", cs.Name)
		milestone(&b, "Origin", cs.Origin)
		for _, m := range cs.Evolution {
			milestone(&b, "", m)
		}
		milestone(&b, "Today", cs.Current)
		if len(cs.Roadmap) > 0 {
			b.WriteString("#### Roadmap\n\n")
			for _, m := range cs.Roadmap {
				fmt.Fprintf(&b, "- **%s**: %s\n", m.Title, m.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func milestone(b *strings.Builder, label string, m Milestone) {
	if m.Title == "" {
		return
	}
	if label != "" {
		fmt.Fprintf(b, "#### %s: %s\n\n", label, m.Title)
	} else {
		fmt.Fprintf(b, "#### %s\n\n", m.Title)
	}
	if m.Description != "" {
		fmt.Fprintf(b, "%s\n\n", m.Description)
	}
	if m.LiveURL != "" {
		fmt.Fprintf(b, "Live at %s\n\n", m.LiveURL)
	}
}
