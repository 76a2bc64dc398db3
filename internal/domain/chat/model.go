package chat

import "time"

// Message is one line of the chat transcript.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FromUser  bool      `json:"from_user"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is the decoded webhook response. Every field is optional.
type Reply struct {
	Response    string `json:"response,omitempty"`
	Message     string `json:"message,omitempty"`
	DataUpdated bool   `json:"dataUpdated,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`
}

// Text returns the assistant text carried by the reply, or "" if none.
func (r Reply) Text() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Message
}

// WantsRefresh reports whether the webhook changed the underlying sheet.
func (r Reply) WantsRefresh() bool {
	return r.DataUpdated || r.Refresh
}

// Exchange is the outcome of sending one message.
type Exchange struct {
	UserMessage   Message `json:"user_message"`
	Reply         Message `json:"reply"`
	Failed        bool    `json:"failed"`
	DataRefreshed bool    `json:"data_refreshed"`
	RefreshError  string  `json:"refresh_error,omitempty"`
}

// MaxMessageLength bounds a chat message in characters.
const MaxMessageLength = 4000

const (
	// GreetingText opens every transcript.
	GreetingText = "Hello! I'm your AI assistant. I can help you manage your photography business data. How can I assist you today?"
	// FallbackReplyText is used when the webhook answers without any text.
	FallbackReplyText = "I received your message and I'm processing it."
	// ApologyText replaces the reply when the webhook cannot be reached.
	ApologyText = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."

	greetingID = "greeting"
)
