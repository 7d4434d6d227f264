package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Message struct {
	Role    Role
	Content string
}

// Exchange is one memory buffer entry: the utterance and the reply recorded for it.
type Exchange struct {
	Human string
	AI    string
}
