// internal/engine/orchestrator.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/law-makers/modeldocs/internal/artifact"
	"github.com/law-makers/modeldocs/internal/extract"
	"github.com/law-makers/modeldocs/internal/provider"
	"github.com/law-makers/modeldocs/internal/reqctx"
	"github.com/law-makers/modeldocs/internal/utils/output"
	"github.com/law-makers/modeldocs/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// verboseHTMLLimit is how much raw HTML is logged when validation fails
const verboseHTMLLimit = 500

// Options tunes orchestrator diagnostics
type Options struct {
	// VerboseHTML logs the head of the raw page when its content is rejected
	VerboseHTML bool
	// SaveRawHTML keeps every fetched page under the output dir's raw subdirectory
	SaveRawHTML bool
}

// Orchestrator runs the resolve, fetch, build and persist pipeline for
// one target at a time and records every file it writes.
type Orchestrator struct {
	resolver  *provider.Resolver
	fetcher   PageFetcher
	builder   *artifact.Builder
	persister *output.Persister
	opts      Options
	written   []WrittenFile
}

// NewOrchestrator wires the pipeline stages together
func NewOrchestrator(resolver *provider.Resolver, fetcher PageFetcher, builder *artifact.Builder, persister *output.Persister, opts Options) *Orchestrator {
	return &Orchestrator{
		resolver:  resolver,
		fetcher:   fetcher,
		builder:   builder,
		persister: persister,
		opts:      opts,
	}
}

// target is a fully resolved page to scrape
type target struct {
	owner    string // provider recorded in the artifact and its filename
	model    string
	url      string
	selector string
	title    string
}

// Scrape runs the pipeline for req: a single model page when it names a
// model, otherwise the provider's listing page.
func (o *Orchestrator) Scrape(ctx context.Context, req models.ScrapeRequest) (*models.ScrapedRecord, error) {
	if req.HasModel() {
		return o.ScrapeModel(ctx, req.Provider, req.Model)
	}
	return o.ScrapeProvider(ctx, req.Provider)
}

// ScrapeModel scrapes one model page. With no provider, or the catalogue
// provider, the model is resolved by prefix; otherwise the provider's own
// model page is used. An empty model scrapes the provider's listing page.
func (o *Orchestrator) ScrapeModel(ctx context.Context, providerName, model string) (*models.ScrapedRecord, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	model = strings.TrimSpace(model)

	if model == "" {
		return o.ScrapeProvider(ctx, name)
	}

	if name == "" || name == provider.CatalogProvider {
		res, err := o.resolver.Resolve(model)
		if err != nil {
			return nil, o.fail(NewEngineError(ErrCodeResolution, "could not resolve model", err).
				WithDetail("model", model))
		}
		return o.run(ctx, catalogTarget(res))
	}

	route, err := o.resolver.Route(name)
	if err != nil {
		return nil, o.fail(NewEngineError(ErrCodeResolution, "unknown provider", err).
			WithDetail("provider", name))
	}
	if !route.SupportsModels() {
		return nil, o.fail(NewEngineError(ErrCodeUnsupported,
			fmt.Sprintf("provider %s does not support model-specific scraping", name), nil).
			WithDetail("provider", name))
	}

	res, err := o.resolver.ModelURL(name, model)
	if err != nil {
		return nil, o.fail(NewEngineError(ErrCodeResolution, "could not build model URL", err))
	}

	return o.run(ctx, target{
		owner:    route.Name,
		model:    model,
		url:      res.URL,
		selector: res.Selector,
		title:    fmt.Sprintf("%s - %s", route.DisplayName, model),
	})
}

// ScrapeCatalog scrapes the catalogue page of an explicit vendor and model
func (o *Orchestrator) ScrapeCatalog(ctx context.Context, vendor, model string) (*models.ScrapedRecord, error) {
	vendor = strings.TrimSpace(vendor)
	model = strings.TrimSpace(model)
	if vendor == "" || model == "" {
		return nil, o.fail(NewEngineError(ErrCodeResolution, "catalogue scrape needs a vendor and a model", nil))
	}
	return o.run(ctx, catalogTarget(o.resolver.Catalog(vendor, model)))
}

// ScrapeProvider scrapes a provider's model listing page
func (o *Orchestrator) ScrapeProvider(ctx context.Context, providerName string) (*models.ScrapedRecord, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))

	route, err := o.resolver.Route(name)
	if err != nil {
		return nil, o.fail(NewEngineError(ErrCodeResolution, "unknown provider", err).
			WithDetail("provider", name))
	}
	if !route.SupportsListing() {
		return nil, o.fail(NewEngineError(ErrCodeUnsupported,
			fmt.Sprintf("provider %s requires specific model names", name), nil).
			WithDetail("provider", name))
	}

	title := route.ListingTitle
	if title == "" {
		title = route.DisplayName + " API Documentation"
	}

	return o.run(ctx, target{
		owner:    route.Name,
		model:    models.ListingModel,
		url:      route.ListingURL,
		selector: route.Selector,
		title:    title,
	})
}

func catalogTarget(res provider.Resolution) target {
	return target{
		owner:    res.Vendor,
		model:    res.Model,
		url:      res.URL,
		selector: res.Selector,
		title:    fmt.Sprintf("%s - %s", strings.ToUpper(res.Vendor), res.Model),
	}
}

func (o *Orchestrator) run(ctx context.Context, t target) (*models.ScrapedRecord, error) {
	ctx = reqctx.WithScrape(ctx, t.owner, t.model)
	logger := log.With().
		Str("scrape_id", reqctx.ScrapeIDFromContext(ctx)).
		Str("provider", t.owner).
		Str("model", t.model).
		Logger()

	logger.Info().Str("url", t.url).Msg("Scraping")

	page, err := o.fetcher.Fetch(ctx, t.url)
	if err != nil {
		return nil, o.failWith(logger, NewEngineError(ErrCodeFetch, "could not fetch page", err).
			WithDetail("url", t.url))
	}

	if o.opts.SaveRawHTML {
		if _, err := o.persister.SaveRawHTML(output.ArtifactName(t.owner, t.model, output.KindRaw), page.HTML); err != nil {
			logger.Warn().Err(err).Msg("Failed to save raw HTML")
		}
	}

	record, err := o.builder.Build(artifact.BuildInput{
		Provider:  t.owner,
		Model:     t.model,
		SourceURL: t.url,
		HTML:      page.HTML,
		Selector:  t.selector,
	})
	if err != nil {
		if o.opts.VerboseHTML {
			logger.Info().Str("html_head", head(page.HTML, verboseHTMLLimit)).Msg("Rejected page")
		}
		engErr := NewEngineError(ErrCodeValidation, "page has no usable content", err).
			WithDetail("url", t.url)
		if profile := extract.Profile(page.HTML); profile.ScriptRendered() {
			logger.Warn().
				Str("framework", profile.Framework).
				Int("scripts", profile.ScriptCount).
				Msg("Page appears to be rendered client-side; only static HTML is scraped")
			engErr.WithDetail("script_rendered", true)
		}
		return nil, o.failWith(logger, engErr)
	}

	mdName := output.ArtifactName(t.owner, t.model, output.KindContext)
	jsonName := output.ArtifactName(t.owner, t.model, output.KindData)

	if previous, err := o.persister.LoadJSON(jsonName); err == nil && previous.ContentHash == record.ContentHash {
		logger.Info().Str("content_hash", record.ContentHash).Msg("Content unchanged since last scrape")
	}

	// Each artifact is written independently; a failed write never removes its sibling
	var errs []error
	if path, err := o.persister.SaveMarkdown(mdName, artifact.RenderMarkdown(record, t.title)); err != nil {
		errs = append(errs, err)
	} else {
		o.record(mdName, path)
	}
	if path, err := o.persister.SaveJSON(jsonName, record); err != nil {
		errs = append(errs, err)
	} else {
		o.record(jsonName, path)
	}
	if len(errs) > 0 {
		return nil, o.failWith(logger, NewEngineError(ErrCodePersist, "could not save artifacts", errors.Join(errs...)))
	}

	logger.Info().
		Int("code_examples", len(record.CodeExamples)).
		Int("tables", len(record.Tables)).
		Msg("Scrape succeeded")

	return record, nil
}

func (o *Orchestrator) record(name, path string) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	for i, f := range o.written {
		if f.Name == name {
			o.written[i].Size = size
			return
		}
	}
	o.written = append(o.written, WrittenFile{Name: name, Path: path, Size: size})
}

func (o *Orchestrator) fail(err *EngineError) error {
	return o.failWith(log.Logger, err)
}

func (o *Orchestrator) failWith(logger zerolog.Logger, err *EngineError) error {
	level := zerolog.ErrorLevel
	if err.Code == ErrCodeValidation {
		level = zerolog.WarnLevel
	}
	logger.WithLevel(level).
		Str("stage", err.Stage()).
		Fields(err.Details).
		Err(err.Underlying).
		Msg(err.Message)
	return err
}

// Summary returns the files written so far and their total size
func (o *Orchestrator) Summary() Summary {
	s := Summary{
		OutputDir: o.persister.Dir(),
		Files:     append([]WrittenFile(nil), o.written...),
	}
	for _, f := range o.written {
		s.TotalBytes += f.Size
	}
	return s
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
