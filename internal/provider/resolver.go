package provider

import (
	"fmt"
	"strings"

	urlutil "github.com/law-makers/modeldocs/internal/utils/url"
)

// ResolutionError is returned when no prefix rule matches a model
type ResolutionError struct {
	Model             string
	SupportedPrefixes []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot determine provider for model %q (supported prefixes: %s)",
		e.Model, strings.Join(e.SupportedPrefixes, ", "))
}

// UnknownProviderError is returned for a provider name with no route
type UnknownProviderError struct {
	Provider string
	Known    []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q (known: %s)", e.Provider, strings.Join(e.Known, ", "))
}

// Resolution is a resolved documentation target
type Resolution struct {
	Provider string // route the page belongs to
	Vendor   string // catalogue vendor, set for prefix-resolved models
	Model    string
	URL      string
	Selector string
}

// Resolver looks up routes by provider name and catalogue vendors by model prefix.
// It is read-only after construction.
type Resolver struct {
	routes []Route
	byName map[string]Route
	rules  []PrefixRule
}

// NewResolver creates a Resolver over routes and prefix rules
func NewResolver(routes []Route, rules []PrefixRule) *Resolver {
	byName := make(map[string]Route, len(routes))
	for _, r := range routes {
		byName[r.Name] = r
	}
	return &Resolver{
		routes: routes,
		byName: byName,
		rules:  rules,
	}
}

// NewDefaultResolver creates a Resolver with the built-in tables
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultRoutes, DefaultPrefixRules)
}

// Resolve finds the catalogue page for model by prefix. Matching is
// case-insensitive and the first rule in declared order wins.
func (r *Resolver) Resolve(model string) (Resolution, error) {
	lower := strings.ToLower(strings.TrimSpace(model))
	for _, rule := range r.rules {
		if lower != "" && strings.HasPrefix(lower, strings.ToLower(rule.Prefix)) {
			return r.Catalog(rule.Vendor, model), nil
		}
	}
	return Resolution{}, &ResolutionError{Model: model, SupportedPrefixes: r.Prefixes()}
}

// Catalog returns the catalogue page for an explicit vendor and model
func (r *Resolver) Catalog(vendor, model string) Resolution {
	tmpl := CatalogModelTemplate
	if route, ok := r.byName[CatalogProvider]; ok && route.ModelTemplate != "" {
		tmpl = route.ModelTemplate
	}
	return Resolution{
		Provider: CatalogProvider,
		Vendor:   vendor,
		Model:    model,
		URL: urlutil.ExpandTemplate(tmpl, map[string]string{
			"vendor": vendor,
			"model":  model,
		}),
		Selector: r.selector(CatalogProvider),
	}
}

// ModelURL builds the provider-native page for model
func (r *Resolver) ModelURL(provider, model string) (Resolution, error) {
	route, err := r.Route(provider)
	if err != nil {
		return Resolution{}, err
	}
	if !route.SupportsModels() {
		return Resolution{}, fmt.Errorf("provider %s does not support model-specific pages", provider)
	}
	return Resolution{
		Provider: route.Name,
		Model:    model,
		URL:      urlutil.ExpandTemplate(route.ModelTemplate, map[string]string{"model": model}),
		Selector: route.Selector,
	}, nil
}

// Route returns the route registered for provider
func (r *Resolver) Route(provider string) (Route, error) {
	route, ok := r.byName[strings.ToLower(provider)]
	if !ok {
		return Route{}, &UnknownProviderError{Provider: provider, Known: r.Providers()}
	}
	return route, nil
}

// Routes returns all routes in declared order
func (r *Resolver) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Providers returns route names in declared order
func (r *Resolver) Providers() []string {
	names := make([]string, len(r.routes))
	for i, route := range r.routes {
		names[i] = route.Name
	}
	return names
}

// Prefixes returns the prefix rules' prefixes in match order
func (r *Resolver) Prefixes() []string {
	prefixes := make([]string, len(r.rules))
	for i, rule := range r.rules {
		prefixes[i] = rule.Prefix
	}
	return prefixes
}

// Rules returns the prefix rules in match order
func (r *Resolver) Rules() []PrefixRule {
	return append([]PrefixRule(nil), r.rules...)
}

func (r *Resolver) selector(provider string) string {
	if route, ok := r.byName[provider]; ok && route.Selector != "" {
		return route.Selector
	}
	return DefaultSelector
}
