package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration      = errors.New("configuration error")
	ErrCredentialMissing  = fmt.Errorf("%w: api key is missing", ErrConfiguration)
	ErrGeneration         = errors.New("generation failed")
	ErrMalformedResponse  = errors.New("malformed generator response")
	ErrTurnInFlight       = errors.New("a turn is already in progress")
	ErrEmptyUtterance     = errors.New("utterance is empty")
	ErrSecretNotFound     = errors.New("secret not found")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrEmptyTranscript    = errors.New("transcript has no turns")
)
