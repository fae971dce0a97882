package messenger

import (
	"fmt"
	"net/url"
)

// TextMessage is a plain text reply.
func TextMessage(text string) Message {
	return Message{Text: text}
}

// QuickReplies collects quick-reply options under a prompt.
type QuickReplies struct {
	text    string
	options []QuickReply
}

func NewQuickReplies(text string) *QuickReplies {
	return &QuickReplies{text: text}
}

// AddText adds a text option whose click delivers payload back to the bot.
func (q *QuickReplies) AddText(title, payload string) *QuickReplies {
	q.options = append(q.options, QuickReply{ContentType: QuickReplyText, Title: title, Payload: payload})
	return q
}

// AddLocation adds the "share location" option.
func (q *QuickReplies) AddLocation() *QuickReplies {
	q.options = append(q.options, QuickReply{ContentType: QuickReplyLocation})
	return q
}

func (q *QuickReplies) Build() Message {
	return Message{Text: q.text, QuickReplies: append([]QuickReply(nil), q.options...)}
}

// Buttons builds a button template message.
type Buttons struct {
	text    string
	buttons []Button
}

func NewButtons(text string) *Buttons {
	return &Buttons{text: text}
}

func (b *Buttons) AddPostback(title, payload string) *Buttons {
	b.buttons = append(b.buttons, Button{Type: ButtonPostback, Title: title, Payload: payload})
	return b
}

func (b *Buttons) AddLink(title, link string) *Buttons {
	b.buttons = append(b.buttons, Button{Type: ButtonWebURL, Title: title, URL: link})
	return b
}

func (b *Buttons) Build() Message {
	buttons := b.buttons
	if buttons == nil {
		buttons = []Button{}
	}
	return Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: ButtonTemplate{
				TemplateType: "button",
				Text:         b.text,
				Buttons:      buttons,
			},
		},
	}
}

// Carousel builds a generic template of location cards plus quick replies.
type Carousel struct {
	elements     []*CarouselElement
	quickReplies []QuickReply
}

func NewCarousel() *Carousel {
	return &Carousel{}
}

// AddQuickReplies copies the options built by fn onto the carousel.
func (c *Carousel) AddQuickReplies(fn func(q *QuickReplies)) *Carousel {
	q := NewQuickReplies("")
	fn(q)
	c.quickReplies = append(c.quickReplies, q.options...)
	return c
}

// AddLocationCard appends a card showing a static map of loc.
func (c *Carousel) AddLocationCard(title, subtitle string, loc Coordinates) *CarouselElement {
	links := MapLinksFor(loc)
	el := &CarouselElement{element: Element{
		Title:    title,
		Subtitle: subtitle,
		ImageURL: links.StaticImage,
		DefaultAction: &DefaultAction{
			Type:               ButtonWebURL,
			URL:                links.Google,
			WebviewHeightRatio: "TALL",
		},
	}}
	c.elements = append(c.elements, el)
	return el
}

func (c *Carousel) Len() int { return len(c.elements) }

func (c *Carousel) Build() Message {
	elements := make([]Element, 0, len(c.elements))
	for _, el := range c.elements {
		elements = append(elements, el.element)
	}
	return Message{
		QuickReplies: append([]QuickReply(nil), c.quickReplies...),
		Attachment: &Attachment{
			Type: "template",
			Payload: GenericTemplate{
				TemplateType: "generic",
				Elements:     elements,
			},
		},
	}
}

type CarouselElement struct {
	element Element
}

func (e *CarouselElement) AddPostback(title, payload string) *CarouselElement {
	e.element.Buttons = append(e.element.Buttons, Button{Type: ButtonPostback, Title: title, Payload: payload})
	return e
}

func (e *CarouselElement) AddLink(title, link string) *CarouselElement {
	e.element.Buttons = append(e.element.Buttons, Button{Type: ButtonWebURL, Title: title, URL: link})
	return e
}

// LocationMessage is a single card pointing at a place on the map.
func LocationMessage(title string, loc Coordinates) Message {
	links := MapLinksFor(loc)
	return Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: GenericTemplate{
				TemplateType: "generic",
				Elements: []Element{{
					Title:    title,
					ImageURL: links.StaticImage,
					ItemURL:  links.Google,
				}},
			},
		},
	}
}

// GenericMessage wraps prebuilt elements, used for static content like help.
func GenericMessage(elements []Element) Message {
	return Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: GenericTemplate{
				TemplateType: "generic",
				Elements:     elements,
			},
		},
	}
}

type MapLinks struct {
	Google      string
	Apple       string
	StaticImage string
}

func MapLinksFor(loc Coordinates) MapLinks {
	point := fmt.Sprintf("%g,%g", loc.Lat, loc.Long)
	static := url.Values{}
	static.Set("size", "764x400")
	static.Set("center", point)
	static.Set("zoom", "17")
	static.Set("markers", point)

	google := url.Values{}
	google.Set("api", "1")
	google.Set("query", point)

	apple := url.Values{}
	apple.Set("q", point)
	apple.Set("z", "16")

	return MapLinks{
		Google:      "https://www.google.com/maps/search/?" + google.Encode(),
		Apple:       "http://maps.apple.com/maps?" + apple.Encode(),
		StaticImage: "https://maps.googleapis.com/maps/api/staticmap?" + static.Encode(),
	}
}
