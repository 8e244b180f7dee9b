// internal/content/content.go
//
// Static showcase data for the portfolio site.
//
// Responsibilities:
//   - Load the content document once (embedded YAML, or CONTENT_FILE if set).
//   - Validate the hero titles and their presentation modes.
//   - Expose typed accessors used by the HTTP API and the terminal hero.
//
// Initialization behavior (Init):
//   1. If CONTENT_FILE is set, read the document from that path.
//   2. Otherwise use the copy embedded from assets/content.yaml.
//
// Constraints:
//   • At least one title is required; modes must be glow, punch, converge or game.
//   • Initialization is run once (sync.Once).

package content

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/michaelcstraus/portfolio/apps/go-server/assets"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
)

type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

type Profile struct {
	Name    string `yaml:"name" json:"name"`
	Tagline string `yaml:"tagline" json:"tagline"`
	Email   string `yaml:"email" json:"email"`
	Phone   string `yaml:"phone" json:"phone,omitempty"`
	Links   []Link `yaml:"links" json:"links"`
}

type Title struct {
	Text string `yaml:"text" json:"text"`
	Mode string `yaml:"mode" json:"mode"`
}

type Game struct {
	ID           string   `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	ThumbnailURL string   `yaml:"thumbnail_url" json:"thumbnailUrl"`
	GameURL      string   `yaml:"game_url" json:"gameUrl"`
	Controls     string   `yaml:"controls" json:"controls"`
	Tags         []string `yaml:"tags" json:"tags"`
}

type GameShowcase struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Items       []Game `yaml:"items" json:"items"`
}

type MusicProject struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Artist      string `yaml:"artist" json:"artist"`
	Role        string `yaml:"role" json:"role"`
	Year        int    `yaml:"year" json:"year"`
	Genre       string `yaml:"genre" json:"genre"`
	Description string `yaml:"description" json:"description"`
}

type Music struct {
	PlaylistURL string         `yaml:"playlist_url" json:"playlistUrl"`
	Projects    []MusicProject `yaml:"projects" json:"projects"`
}

type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Level    int    `yaml:"level" json:"level"`
	Category string `yaml:"category" json:"category"`
}

type Experience struct {
	Title       string   `yaml:"title" json:"title"`
	Company     string   `yaml:"company" json:"company"`
	Period      string   `yaml:"period" json:"period"`
	Description string   `yaml:"description" json:"description"`
	Skills      []string `yaml:"skills" json:"skills"`
}

// Milestone is one step of the case study timeline.
type Milestone struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ImageURL    string `yaml:"image_url" json:"imageUrl,omitempty"`
	LiveURL     string `yaml:"live_url" json:"liveUrl,omitempty"`
}

type CaseStudy struct {
	Name      string      `yaml:"name" json:"name"`
	Origin    Milestone   `yaml:"origin" json:"origin"`
	Evolution []Milestone `yaml:"evolution" json:"evolution"`
	Current   Milestone   `yaml:"current" json:"current"`
	Roadmap   []Milestone `yaml:"roadmap" json:"roadmap"`
}

type WebProject struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags"`
	ImageURL    string   `yaml:"image_url" json:"imageUrl"`
	DemoURL     string   `yaml:"demo_url" json:"demoUrl"`
	RepoURL     string   `yaml:"repo_url" json:"repoUrl,omitempty"`
}

type MediaItem struct {
	ID          string `yaml:"id" json:"id"`
	Type        string `yaml:"type" json:"type"` // image | video
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url" json:"url"`
}

// Site is the whole content document.
type Site struct {
	Profile     Profile      `yaml:"profile" json:"profile"`
	Titles      []Title      `yaml:"titles" json:"titles"`
	Games       GameShowcase `yaml:"games" json:"-"` // password gated
	Music       Music        `yaml:"music" json:"music"`
	Skills      []Skill      `yaml:"skills" json:"skills"`
	Experiences []Experience `yaml:"experiences" json:"experiences"`
	CaseStudy   CaseStudy    `yaml:"case_study" json:"caseStudy"`
	WebProjects []WebProject `yaml:"web_projects" json:"webProjects"`
	Media       []MediaItem  `yaml:"media" json:"-"` // password gated
}

var (
	initOnce   sync.Once
	site       *Site
	initialErr error
)

// Init loads the content document exactly once.
func Init() error {
	initOnce.Do(func() {
		raw, err := assets.Content(os.Getenv("CONTENT_FILE"))
		if err != nil {
			initialErr = fmt.Errorf("content: read: %w", err)
			return
		}
		site, initialErr = Parse(raw)
	})
	return initialErr
}

// Load returns the content loaded by Init, initialising on first use.
func Load() (*Site, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return site, nil
}

// Parse decodes and validates a content document.
func Parse(raw []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("content: parse: %w", err)
	}
	if len(s.Titles) == 0 {
		return nil, errors.New("content: no titles")
	}
	for i, t := range s.Titles {
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("content: title %d is empty", i)
		}
		if _, err := hero.ParseMode(t.Mode); err != nil {
			return nil, fmt.Errorf("content: title %q: %w", t.Text, err)
		}
	}
	return &s, nil
}

// HeroTitles converts the configured titles for the hero controller.
func (s *Site) HeroTitles() []hero.Title {
	out := make([]hero.Title, 0, len(s.Titles))
	for _, t := range s.Titles {
		m, _ := hero.ParseMode(t.Mode) // validated in Parse
		out = append(out, hero.Title{Text: t.Text, Mode: m})
	}
	return out
}

// SkillsIn returns the skills of one category; "" or "all" returns every skill.
func (s *Site) SkillsIn(category string) []Skill {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return s.Skills
	}
	var out []Skill
	for _, sk := range s.Skills {
		if strings.EqualFold(sk.Category, category) {
			out = append(out, sk)
		}
	}
	return out
}

// Categories lists skill categories in first-seen order.
func (s *Site) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sk := range s.Skills {
		if _, ok := seen[sk.Category]; ok {
			continue
		}
		seen[sk.Category] = struct{}{}
		out = append(out, sk.Category)
	}
	return out
}
