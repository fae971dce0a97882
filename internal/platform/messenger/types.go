package messenger

// Outbound Send API shapes. Field names follow the Graph API wire format.

type Recipient struct {
	ID string `json:"id"`
}

type SendRequest struct {
	Recipient Recipient `json:"recipient"`
	Message   Message   `json:"message"`
}

type Message struct {
	Text         string       `json:"text,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
}

const (
	QuickReplyText     = "text"
	QuickReplyLocation = "location"
)

type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type Attachment struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	ButtonPostback = "postback"
	ButtonWebURL   = "web_url"
)

type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Payload string `json:"payload,omitempty"`
	URL     string `json:"url,omitempty"`
}

type ButtonTemplate struct {
	TemplateType string   `json:"template_type"`
	Text         string   `json:"text"`
	Buttons      []Button `json:"buttons"`
}

type GenericTemplate struct {
	TemplateType string    `json:"template_type"`
	Elements     []Element `json:"elements"`
}

type Element struct {
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	ItemURL       string         `json:"item_url,omitempty"`
	DefaultAction *DefaultAction `json:"default_action,omitempty"`
	Buttons       []Button       `json:"buttons,omitempty"`
}

type DefaultAction struct {
	Type               string `json:"type"`
	URL                string `json:"url"`
	WebviewHeightRatio string `json:"webview_height_ratio,omitempty"`
}

// Coordinates is the location shape both received in location attachments and
// used for map links.
type Coordinates struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Messenger profile shapes (POST /me/messenger_profile).

type Profile struct {
	GetStarted     *GetStarted      `json:"get_started,omitempty"`
	PersistentMenu []PersistentMenu `json:"persistent_menu,omitempty"`
	Greeting       []Greeting       `json:"greeting,omitempty"`
}

type GetStarted struct {
	Payload string `json:"payload"`
}

type Greeting struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

type PersistentMenu struct {
	Locale                string         `json:"locale"`
	ComposerInputDisabled bool           `json:"composer_input_disabled"`
	CallToActions         []CallToAction `json:"call_to_actions"`
}

const (
	CallToActionPostback = "postback"
	CallToActionNested   = "nested"
)

type CallToAction struct {
	Title         string         `json:"title"`
	Type          string         `json:"type"`
	Payload       string         `json:"payload,omitempty"`
	CallToActions []CallToAction `json:"call_to_actions,omitempty"`
}
