package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
)

func TestEmbeddedContent(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []hero.Title{
		{Text: "Product Director", Mode: hero.ModeGlow},
		{Text: "Game Designer", Mode: hero.ModeGame},
		{Text: "Audio Programmer", Mode: hero.ModePunch},
		{Text: "Creative Lead", Mode: hero.ModeConverge},
		{Text: "Sound Director", Mode: hero.ModeGlow},
	}, s.HeroTitles())

	assert.NotEmpty(t, s.Profile.Name)
	assert.Len(t, s.Games.Items, 4)
	assert.NotEmpty(t, s.Music.PlaylistURL)
	assert.NotEmpty(t, s.CaseStudy.Evolution)
	assert.Equal(t, "https://stagedivephilly.com", s.CaseStudy.Current.LiveURL)
	assert.NotEmpty(t, s.Media)
}

func TestSkills(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"design", "development", "art", "creative", "soft"}, s.Categories())
	assert.Len(t, s.SkillsIn(""), len(s.Skills))
	assert.Len(t, s.SkillsIn("all"), len(s.Skills))
	for _, sk := range s.SkillsIn("Design") {
		assert.Equal(t, "design", sk.Category)
	}
	assert.Empty(t, s.SkillsIn("cooking"))
}

func TestParseRejectsBadTitles(t *testing.T) {
	tests := map[string]string{
		"no titles":    "profile: {name: x}\n",
		"empty title":  "titles:\n  - text: ' '\n",
		"unknown mode": "titles:\n  - text: Director\n    mode: sparkle\n",
		"not yaml":     "titles: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}

	s, err := Parse([]byte("titles:\n  - text: Director\n"))
	require.NoError(t, err)
	assert.Equal(t, hero.ModeGlow, s.HeroTitles()[0].Mode, "mode defaults to glow")
}

func TestMarkdown(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)
	md := s.Markdown()

	assert.True(t, strings.HasPrefix(md, "# "+s.Profile.Name+"\n"))
	assert.Contains(t, md, "Product Director · Game Designer")
	assert.Contains(t, md, "## Case study: StageDivePhilly")
	assert.Contains(t, md, "#### Origin: The Spark: A Personal Solution")
	assert.Contains(t, md, "Live at https://stagedivephilly.com")
	assert.Contains(t, md, "[GitHub](https://github.com/michaelcstraus)")
	assert.NotContains(t, md, "Cosmic Defender", "gated games stay out")
}
