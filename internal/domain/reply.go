package domain

import "fmt"

const MissingContentPlaceholder = "I couldn't generate a response."

type ReplyKind int

const (
	ReplyStructured ReplyKind = iota + 1
	ReplyRaw
)

// Reply is what an answer generator hands back before normalization.
type Reply struct {
	Kind       ReplyKind
	Content    string
	hasContent bool
}

func StructuredReply(content string) Reply {
	return Reply{Kind: ReplyStructured, Content: content, hasContent: true}
}

func RawReply(text string) Reply {
	return Reply{Kind: ReplyRaw, Content: text, hasContent: true}
}

// MissingContentReply is a structured reply that carried no content field.
func MissingContentReply() Reply {
	return Reply{Kind: ReplyStructured}
}

// ReplyFromFields maps a decoded key/value reply onto a Reply using its "content" entry.
func ReplyFromFields(fields map[string]any) Reply {
	value, ok := fields["content"]
	if !ok || value == nil {
		return MissingContentReply()
	}

	if content, ok := value.(string); ok {
		return StructuredReply(content)
	}

	return StructuredReply(fmt.Sprint(value))
}

func (r Reply) Malformed() bool {
	return r.Kind != ReplyRaw && !r.hasContent
}

// Text is the normalized display text.
func (r Reply) Text() string {
	if r.Malformed() {
		return MissingContentPlaceholder
	}

	return r.Content
}
