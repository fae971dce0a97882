package roombot

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

//go:embed profile.yaml
var defaultProfileYAML []byte

// ProfileSpec is the page profile and help content, as written in YAML.
type ProfileSpec struct {
	GetStarted string         `yaml:"get_started"`
	Greeting   []greetingSpec `yaml:"greeting"`
	Menu       menuSpec       `yaml:"menu"`
	Help       []helpCardSpec `yaml:"help"`
}

type greetingSpec struct {
	Locale string `yaml:"locale"`
	Text   string `yaml:"text"`
}

type menuSpec struct {
	Locale       string         `yaml:"locale"`
	DisableInput bool           `yaml:"disable_input"`
	Items        []menuItemSpec `yaml:"items"`
}

// menuItemSpec is a postback when Payload is set, else a nested menu.
type menuItemSpec struct {
	Title   string         `yaml:"title"`
	Payload string         `yaml:"payload"`
	Items   []menuItemSpec `yaml:"items"`
}

type helpCardSpec struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	ImageURL string `yaml:"image_url"`
	Links    []struct {
		Title string `yaml:"title"`
		URL   string `yaml:"url"`
	} `yaml:"links"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() (*ProfileSpec, error) {
	return ParseProfile(defaultProfileYAML)
}

// ParseProfile decodes and checks a profile document. Every payload must
// be a tag the classifier understands.
func ParseProfile(raw []byte) (*ProfileSpec, error) {
	var spec ProfileSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := checkTag(spec.GetStarted); err != nil {
		return nil, fmt.Errorf("get_started: %w", err)
	}
	if err := checkItems(spec.Menu.Items, "menu"); err != nil {
		return nil, err
	}
	return &spec, nil
}

func checkTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("missing payload")
	}
	if _, err := actions.DecodePayload(actions.Tag(tag).String()); err != nil {
		return err
	}
	return nil
}

func checkItems(items []menuItemSpec, path string) error {
	for i, it := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		if strings.TrimSpace(it.Title) == "" {
			return fmt.Errorf("%s: missing title", p)
		}
		if len(it.Items) > 0 {
			if it.Payload != "" {
				return fmt.Errorf("%s: nested item cannot have a payload", p)
			}
			if err := checkItems(it.Items, p); err != nil {
				return err
			}
			continue
		}
		if err := checkTag(it.Payload); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Messenger renders the Graph API profile.
func (s *ProfileSpec) Messenger() messenger.Profile {
	menu := messenger.NewMenu(s.Menu.DisableInput, s.Menu.Locale)
	for _, it := range s.Menu.Items {
		it := it
		if len(it.Items) > 0 {
			menu.Nested(it.Title, func(sub *messenger.SubMenu) { fillSubMenu(sub, it.Items) })
			continue
		}
		menu.Postback(it.Title, actions.Tag(it.Payload).String())
	}

	greetings := make([]messenger.Greeting, 0, len(s.Greeting))
	for _, g := range s.Greeting {
		locale := g.Locale
		if locale == "" {
			locale = "default"
		}
		greetings = append(greetings, messenger.Greeting{Locale: locale, Text: strings.TrimSpace(g.Text)})
	}

	return messenger.Profile{
		GetStarted:     &messenger.GetStarted{Payload: actions.Tag(s.GetStarted).String()},
		PersistentMenu: []messenger.PersistentMenu{menu.Build()},
		Greeting:       greetings,
	}
}

func fillSubMenu(sub *messenger.SubMenu, items []menuItemSpec) {
	for _, it := range items {
		it := it
		if len(it.Items) > 0 {
			sub.Nested(it.Title, func(child *messenger.SubMenu) { fillSubMenu(child, it.Items) })
			continue
		}
		sub.Postback(it.Title, actions.Tag(it.Payload).String())
	}
}

// HelpCards renders the help carousel.
func (s *ProfileSpec) HelpCards() []messenger.Element {
	out := make([]messenger.Element, 0, len(s.Help))
	for _, c := range s.Help {
		el := messenger.Element{Title: c.Title, Subtitle: c.Subtitle, ImageURL: c.ImageURL}
		for _, l := range c.Links {
			el.Buttons = append(el.Buttons, messenger.Button{Type: messenger.ButtonWebURL, Title: l.Title, URL: l.URL})
		}
		out = append(out, el)
	}
	return out
}
