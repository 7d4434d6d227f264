package domain

const DefaultTemperature = 0.7

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderHTTP      Provider = "http"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderHTTP:
		return true
	default:
		return false
	}
}

type GenerationConfig struct {
	Provider    Provider
	Model       string
	Temperature float64
	MaxTokens   int64
	BaseURL     string
}
