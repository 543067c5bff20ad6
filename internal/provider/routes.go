// Package provider maps providers and model identifiers to documentation URLs.
package provider

// DefaultSelector scopes text extraction to the main content area
const DefaultSelector = "main"

// CatalogProvider is the aggregated catalogue that hosts per-vendor model pages
const CatalogProvider = "aimlapi"

// CatalogModelTemplate is the catalogue page for one vendor model
const CatalogModelTemplate = "https://docs.aimlapi.com/api-references/text-models-llm/{vendor}/{model}"

// Route describes where a provider publishes its documentation
type Route struct {
	Name          string
	DisplayName   string
	ListingURL    string // empty when the provider has no listing page
	ListingTitle  string
	ModelTemplate string // "{model}" placeholder; empty when model pages are not supported
	Selector      string
}

// SupportsModels reports whether the route can build per-model URLs
func (r Route) SupportsModels() bool {
	return r.ModelTemplate != ""
}

// SupportsListing reports whether the route has a listing page
func (r Route) SupportsListing() bool {
	return r.ListingURL != ""
}

// PrefixRule maps model identifiers starting with Prefix to a catalogue vendor
type PrefixRule struct {
	Prefix string
	Vendor string
}

// DefaultRoutes are the known documentation sources, in display order
var DefaultRoutes = []Route{
	{
		Name:          CatalogProvider,
		DisplayName:   "AIML API",
		ModelTemplate: CatalogModelTemplate,
		Selector:      DefaultSelector,
	},
	{
		Name:         "openai",
		DisplayName:  "OpenAI",
		ListingURL:   "https://platform.openai.com/docs/api-reference/models",
		ListingTitle: "OpenAI API Documentation",
		Selector:     DefaultSelector,
	},
	{
		Name:         "anthropic",
		DisplayName:  "Anthropic",
		ListingURL:   "https://docs.anthropic.com/en/api/models",
		ListingTitle: "Anthropic Claude API Documentation",
		Selector:     DefaultSelector,
	},
	{
		Name:          "google",
		DisplayName:   "Google Gemini",
		ListingURL:    "https://ai.google.dev/models",
		ListingTitle:  "Google Gemini API Documentation",
		ModelTemplate: "https://ai.google.dev/models/gemini-{model}",
		Selector:      DefaultSelector,
	},
	{
		Name:          "deepseek",
		DisplayName:   "DeepSeek",
		ListingURL:    "https://platform.deepseek.com/docs/models",
		ListingTitle:  "DeepSeek API Documentation",
		ModelTemplate: "https://platform.deepseek.com/docs/models/{model}",
		Selector:      DefaultSelector,
	},
	{
		Name:          "mistral",
		DisplayName:   "Mistral",
		ListingURL:    "https://docs.mistral.ai/capabilities/models",
		ListingTitle:  "Mistral API Documentation",
		ModelTemplate: "https://docs.mistral.ai/capabilities/models/{model}",
		Selector:      DefaultSelector,
	},
	{
		Name:         "cohere",
		DisplayName:  "Cohere",
		ListingURL:   "https://docs.cohere.com/models",
		ListingTitle: "Cohere API Documentation",
		Selector:     DefaultSelector,
	},
}

// DefaultPrefixRules are checked in order; the first match wins.
// Overlapping prefixes must be listed most specific first.
var DefaultPrefixRules = []PrefixRule{
	{Prefix: "gpt-", Vendor: "openai"},
	{Prefix: "o1", Vendor: "openai"},
	{Prefix: "o3", Vendor: "openai"},
	{Prefix: "o4", Vendor: "openai"},
	{Prefix: "claude-", Vendor: "anthropic"},
	{Prefix: "deepseek-", Vendor: "deepseek"},
	{Prefix: "gemini-", Vendor: "google"},
	{Prefix: "mistral-", Vendor: "mistral-ai"},
	{Prefix: "llama-", Vendor: "meta"},
	{Prefix: "qwen-", Vendor: "alibaba-cloud"},
	{Prefix: "moonshot-", Vendor: "moonshot"},
	{Prefix: "command-", Vendor: "cohere"},
	{Prefix: "grok-", Vendor: "xai"},
}
