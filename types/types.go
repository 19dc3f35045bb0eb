package types

// Activity types understood by the dispatcher. The transport that
// delivers them is an external concern; these mirror the envelope it
// hands us.
const (
	ActivityMessage            = "message"
	ActivityConversationUpdate = "conversationUpdate"
)

// CardAction kinds.
const (
	ActionImBack  = "imBack"
	ActionOpenURL = "openUrl"
	ActionCall    = "call"
)

// ChannelAccount identifies one participant of a conversation.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Turn is a single inbound activity. Exactly one Turn is processed
// end-to-end per conversation before the next is accepted.
type Turn struct {
	Type           string           `json:"type"`
	Text           string           `json:"text,omitempty"`
	ConversationID string           `json:"conversation_id"`
	From           ChannelAccount   `json:"from,omitempty"`
	Recipient      ChannelAccount   `json:"recipient,omitempty"`
	MembersAdded   []ChannelAccount `json:"members_added,omitempty"`
}

// CardAction is a tappable button on a card or a suggested action.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// HeroCard is a rich card with an optional button row.
type HeroCard struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Buttons  []CardAction `json:"buttons,omitempty"`
	Tap      *CardAction  `json:"tap,omitempty"`
}

// Attachment layouts.
const (
	LayoutList     = "list"
	LayoutCarousel = "carousel"
)

// Activity is one outbound unit handed to the Sink. Delivery is
// fire-and-forget; nothing feeds back into the dialog state machine.
type Activity struct {
	Type             string       `json:"type"`
	Text             string       `json:"text,omitempty"`
	SuggestedActions []CardAction `json:"suggested_actions,omitempty"`
	Attachments      []HeroCard   `json:"attachments,omitempty"`
	AttachmentLayout string       `json:"attachment_layout,omitempty"`
}

// MessageActivity builds a plain text message.
func MessageActivity(text string) *Activity {
	return &Activity{Type: ActivityMessage, Text: text}
}

// ChoiceActivity builds a message annotated with a fixed button set.
func ChoiceActivity(text string, actions []CardAction) *Activity {
	return &Activity{
		Type:             ActivityMessage,
		Text:             text,
		SuggestedActions: actions,
	}
}

// CardActivity builds a single hero card message.
func CardActivity(card HeroCard) *Activity {
	return &Activity{
		Type:             ActivityMessage,
		Attachments:      []HeroCard{card},
		AttachmentLayout: LayoutList,
	}
}

// CarouselActivity builds a horizontally scrollable card set.
func CarouselActivity(cards []HeroCard) *Activity {
	return &Activity{
		Type:             ActivityMessage,
		Attachments:      cards,
		AttachmentLayout: LayoutCarousel,
	}
}
