package envelope

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags the payload variant carried by an [Envelope].
type Kind string

// Envelope kinds understood by relay clients.
const (
	KindResponseChunk Kind = "response_chunk"
	KindTypingStatus  Kind = "typing_status"
	KindError         Kind = "error"
	KindSystemNotice  Kind = "system_notice"
)

// Severity levels for system notices.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Envelope defines a public type used by goRelay APIs.
//
// Envelope instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Exactly one payload field is set, matching Kind. Envelopes are stateless:
// construct a fresh one per send with the New* helpers, which stamp the
// emission timestamp.
type Envelope struct {
	Kind      Kind      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	ResponseChunk *ResponseChunk `json:"response_chunk,omitempty"`
	TypingStatus  *TypingStatus  `json:"typing_status,omitempty"`
	Error         *ErrorNotice   `json:"error,omitempty"`
	SystemNotice  *SystemNotice  `json:"system_notice,omitempty"`
}

// ResponseChunk carries one streamed slice of a generated answer.
type ResponseChunk struct {
	MessageID string          `json:"message_id"`
	Text      string          `json:"text"`
	Done      bool            `json:"done"`
	Sources   []SourceExcerpt `json:"sources,omitempty"`
}

// SourceExcerpt points a streamed answer chunk at supporting material.
type SourceExcerpt struct {
	DocumentID string  `json:"document_id"`
	Excerpt    string  `json:"excerpt"`
	Score      float64 `json:"score"`
}

// TypingStatus signals whether the assistant is composing a response.
type TypingStatus struct {
	Typing bool `json:"typing"`
}

// ErrorNotice reports a failure to the client in client-safe terms.
type ErrorNotice struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// SystemNotice carries an operational announcement.
type SystemNotice struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NewResponseChunk builds a response-chunk envelope. An empty messageID is
// replaced with a fresh UUID so every chunk stream stays addressable.
func NewResponseChunk(messageID, text string, done bool, sources []SourceExcerpt) Envelope {
	if messageID == "" {
		messageID = uuid.NewString()
	}
	return Envelope{
		Kind:      KindResponseChunk,
		Timestamp: time.Now().UTC(),
		ResponseChunk: &ResponseChunk{
			MessageID: messageID,
			Text:      text,
			Done:      done,
			Sources:   sources,
		},
	}
}

// NewTypingStatus builds a typing-status envelope.
func NewTypingStatus(typing bool) Envelope {
	return Envelope{
		Kind:      KindTypingStatus,
		Timestamp: time.Now().UTC(),
		TypingStatus: &TypingStatus{
			Typing: typing,
		},
	}
}

// NewErrorNotice builds an error envelope.
func NewErrorNotice(code, message string, retryable bool) Envelope {
	return Envelope{
		Kind:      KindError,
		Timestamp: time.Now().UTC(),
		Error: &ErrorNotice{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}

// NewSystemNotice builds a system-notice envelope.
func NewSystemNotice(message, severity string) Envelope {
	return Envelope{
		Kind:      KindSystemNotice,
		Timestamp: time.Now().UTC(),
		SystemNotice: &SystemNotice{
			Message:  message,
			Severity: severity,
		},
	}
}
