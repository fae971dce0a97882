package messenger

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyBody = errors.New("messenger: empty webhook body")
	ErrNotPage   = errors.New("messenger: expected page event")
)

type EventKind string

const (
	EventMessage  EventKind = "message"
	EventPostback EventKind = "postback"
	EventRead     EventKind = "read"
	EventDelivery EventKind = "delivery"
	EventUnknown  EventKind = "unknown"
)

type MessageKind string

// Listed in parse priority order: a message matching several kinds takes the
// first one.
const (
	MessageQuickReply MessageKind = "quick-reply"
	MessageText       MessageKind = "text"
	MessageLocation   MessageKind = "location"
	MessageSticker    MessageKind = "sticker"
	MessageImage      MessageKind = "image"
	MessageAudio      MessageKind = "audio"
	MessageVague      MessageKind = "vague"
)

// Event is one entry of a webhook delivery's messaging array.
type Event struct {
	Kind      EventKind
	Sender    string
	Recipient string
	Timestamp int64

	// Set for EventMessage.
	Message *InboundMessage
	// Raw postback payload for EventPostback.
	PostbackPayload string

	Raw json.RawMessage
}

type InboundMessage struct {
	Kind MessageKind
	MID  string
	Seq  int64

	Text string
	NLP  *NLP

	// Raw quick reply payload for MessageQuickReply.
	QuickReplyPayload string

	Location  *Coordinates
	StickerID int64
	URLs      []string
}

// NLP is the built-in entity extraction Messenger attaches to text messages.
type NLP struct {
	Entities map[string][]Entity `json:"entities"`
}

type Entity struct {
	Confidence float64 `json:"confidence"`
	Value      string  `json:"value"`
}

type webhookBody struct {
	Object string `json:"object"`
	Entry  []struct {
		ID        string            `json:"id"`
		Time      int64             `json:"time"`
		Messaging []json.RawMessage `json:"messaging"`
	} `json:"entry"`
}

type rawMessaging struct {
	Sender    *struct{ ID string `json:"id"` } `json:"sender"`
	Recipient *struct{ ID string `json:"id"` } `json:"recipient"`
	Timestamp int64                             `json:"timestamp"`
	Message   *rawMessage                       `json:"message"`
	Postback  *struct {
		Title   string `json:"title"`
		Payload string `json:"payload"`
	} `json:"postback"`
	Read     json.RawMessage `json:"read"`
	Delivery json.RawMessage `json:"delivery"`
}

type rawMessage struct {
	MID        string  `json:"mid"`
	Seq        int64   `json:"seq"`
	Text       *string `json:"text"`
	NLP        *NLP    `json:"nlp"`
	StickerID  int64   `json:"sticker_id"`
	QuickReply *struct {
		Payload string `json:"payload"`
	} `json:"quick_reply"`
	Attachments []struct {
		Type    string `json:"type"`
		Payload struct {
			URL         string       `json:"url"`
			Coordinates *Coordinates `json:"coordinates"`
		} `json:"payload"`
	} `json:"attachments"`
}

// ParseEvents flattens a webhook body into its events, preserving order.
func ParseEvents(body []byte) ([]Event, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	if wb.Object != "page" {
		return nil, ErrNotPage
	}
	var events []Event
	for _, entry := range wb.Entry {
		for _, raw := range entry.Messaging {
			ev, err := parseMessaging(raw)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

func parseMessaging(raw json.RawMessage) (Event, error) {
	var rm rawMessaging
	if err := json.Unmarshal(raw, &rm); err != nil {
		return Event{}, fmt.Errorf("decode messaging entry: %w", err)
	}
	ev := Event{Kind: EventUnknown, Timestamp: rm.Timestamp, Raw: raw}
	if rm.Sender != nil {
		ev.Sender = rm.Sender.ID
	}
	if rm.Recipient != nil {
		ev.Recipient = rm.Recipient.ID
	}
	switch {
	case rm.Postback != nil:
		ev.Kind = EventPostback
		ev.PostbackPayload = rm.Postback.Payload
	case len(rm.Read) > 0 && string(rm.Read) != "null":
		ev.Kind = EventRead
	case len(rm.Delivery) > 0 && string(rm.Delivery) != "null":
		ev.Kind = EventDelivery
	case rm.Message != nil:
		ev.Kind = EventMessage
		ev.Message = parseMessage(rm.Message)
	}
	return ev, nil
}

func parseMessage(m *rawMessage) *InboundMessage {
	out := &InboundMessage{Kind: MessageVague, MID: m.MID, Seq: m.Seq}
	var (
		location *Coordinates
		images   []string
		audio    []string
	)
	for _, a := range m.Attachments {
		switch a.Type {
		case "location":
			if location == nil && a.Payload.Coordinates != nil {
				c := *a.Payload.Coordinates
				location = &c
			}
		case "image":
			images = append(images, a.Payload.URL)
		case "audio":
			audio = append(audio, a.Payload.URL)
		}
	}

	switch {
	case m.QuickReply != nil:
		out.Kind = MessageQuickReply
		out.QuickReplyPayload = m.QuickReply.Payload
	case m.Text != nil:
		out.Kind = MessageText
		out.Text = *m.Text
		out.NLP = m.NLP
	case location != nil:
		out.Kind = MessageLocation
		out.Location = location
	case len(images) > 0 && m.StickerID != 0:
		out.Kind = MessageSticker
		out.StickerID = m.StickerID
		out.URLs = images[:1]
	case len(images) > 0:
		out.Kind = MessageImage
		out.URLs = images
	case len(audio) > 0:
		out.Kind = MessageAudio
		out.URLs = audio[:1]
	}
	return out
}
