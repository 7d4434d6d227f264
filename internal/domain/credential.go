package domain

import (
	"log/slog"
	"strings"
)

type Credential string

func NewCredential(raw string) Credential {
	return Credential(strings.TrimSpace(raw))
}

func (c Credential) IsZero() bool {
	return c == ""
}

func (c Credential) Reveal() string {
	return string(c)
}

func (c Credential) String() string {
	if c.IsZero() {
		return "<unset>"
	}

	return "<redacted>"
}

func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
