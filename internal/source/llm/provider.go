package llm

const (
	KindOpenAI = "openai_compatible"
	KindGemini = "gemini_rest"

	KeyOpenAI    = "openai"
	KeyGemini    = "gemini"
	KeyDeepInfra = "deepinfra"
)

// Provider is one model asked for a weekly recommendation.
type Provider struct {
	Name   string
	Agency string
	Kind   string
	URL    string
	Model  string
	// Key names the entry of the configured key map used by this provider.
	Key string
	// JSONFormat requests a JSON object response where the API supports it.
	JSONFormat bool
}

var Providers = []Provider{
	{
		Name:       "gpt-4o-mini",
		Agency:     "OpenAI",
		Kind:       KindOpenAI,
		URL:        "https://api.openai.com/v1/chat/completions",
		Model:      "gpt-4o-mini",
		Key:        KeyOpenAI,
		JSONFormat: true,
	},
	{
		Name:   "gemini-2.5-flash-lite",
		Agency: "Google",
		Kind:   KindGemini,
		URL:    "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-lite:generateContent",
		Model:  "gemini-2.5-flash-lite",
		Key:    KeyGemini,
	},
	{
		Name:       "llama-3.1-8b-turbo",
		Agency:     "Meta",
		Kind:       KindOpenAI,
		URL:        "https://api.deepinfra.com/v1/openai/chat/completions",
		Model:      "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo",
		Key:        KeyDeepInfra,
		JSONFormat: true,
	},
	{
		Name:       "deepseek-v3.1",
		Agency:     "DeepSeek",
		Kind:       KindOpenAI,
		URL:        "https://api.deepinfra.com/v1/openai/chat/completions",
		Model:      "deepseek-ai/DeepSeek-V3.1",
		Key:        KeyDeepInfra,
		JSONFormat: true,
	},
}
