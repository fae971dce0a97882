package messenger

// Menu builds one locale's persistent menu.
type Menu struct {
	locale       string
	disableInput bool
	items        []CallToAction
}

// NewMenu starts a menu; an empty locale means "default".
func NewMenu(disableInput bool, locale string) *Menu {
	if locale == "" {
		locale = "default"
	}
	return &Menu{locale: locale, disableInput: disableInput}
}

func (m *Menu) Postback(title, payload string) *Menu {
	m.items = append(m.items, CallToAction{Title: title, Type: CallToActionPostback, Payload: payload})
	return m
}

// Nested adds a submenu populated by fn.
func (m *Menu) Nested(title string, fn func(sub *SubMenu)) *Menu {
	sub := &SubMenu{title: title}
	fn(sub)
	m.items = append(m.items, sub.build())
	return m
}

func (m *Menu) Build() PersistentMenu {
	items := append([]CallToAction{}, m.items...)
	return PersistentMenu{
		Locale:                m.locale,
		ComposerInputDisabled: m.disableInput,
		CallToActions:         items,
	}
}

type SubMenu struct {
	title string
	items []CallToAction
}

func (s *SubMenu) Postback(title, payload string) *SubMenu {
	s.items = append(s.items, CallToAction{Title: title, Type: CallToActionPostback, Payload: payload})
	return s
}

func (s *SubMenu) Nested(title string, fn func(sub *SubMenu)) *SubMenu {
	child := &SubMenu{title: title}
	fn(child)
	s.items = append(s.items, child.build())
	return s
}

func (s *SubMenu) build() CallToAction {
	return CallToAction{
		Title:         s.title,
		Type:          CallToActionNested,
		CallToActions: append([]CallToAction{}, s.items...),
	}
}
