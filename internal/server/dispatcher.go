package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boardroles/boardsite/internal/store"
	"github.com/boardroles/boardsite/internal/telemetry"
	"github.com/boardroles/boardsite/internal/tools"
)

// Dispatcher routes tool calls by name to the injected store. It backs
// the HTTP transport, where requests arrive as a name plus a raw
// argument bag rather than typed structs.
type Dispatcher struct {
	store   store.ArticleStore
	metrics *telemetry.MetricsCollector
	catalog []tools.Descriptor
	byName  map[string]tools.Descriptor
}

// NewDispatcher creates a Dispatcher whose catalog reflects the
// capabilities of the given store.
func NewDispatcher(st store.ArticleStore, metrics *telemetry.MetricsCollector) *Dispatcher {
	catalog := tools.Catalog(catalogOptions(st))

	byName := make(map[string]tools.Descriptor, len(catalog))
	for _, desc := range catalog {
		byName[desc.Name] = desc
	}

	return &Dispatcher{
		store:   st,
		metrics: metrics,
		catalog: catalog,
		byName:  byName,
	}
}

// catalogOptions derives the advertised tool set from the store's
// capability interfaces.
func catalogOptions(st store.ArticleStore) tools.CatalogOptions {
	opts := tools.CatalogOptions{}
	if _, ok := st.(store.SiteConfigStore); ok {
		opts.SiteConfig = true
	}
	if _, ok := st.(store.ThemeStore); ok {
		opts.Theme = true
	}
	if _, ok := st.(store.Publisher); ok {
		opts.Publish = true
	}
	return opts
}

// Tools returns the advertised tool catalog.
func (d *Dispatcher) Tools() []tools.Descriptor {
	return d.catalog
}

// Call dispatches one tool invocation. Unknown names and missing
// required arguments are rejected before any store call; all outcomes
// are reported through the uniform result envelope.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) tools.CallResult {
	d.metrics.IncrementCounter(telemetry.MetricToolCalls, 1)
	d.metrics.RecordTimestamp(telemetry.MetricLastCall)

	desc, ok := d.byName[name]
	if !ok {
		d.metrics.IncrementCounter(telemetry.MetricUnknownTools, 1)
		return tools.ErrorResult(fmt.Sprintf("Error: unknown tool: %s", name))
	}
	d.metrics.IncrementCounter(telemetry.MetricForTool(name), 1)

	for _, key := range desc.InputSchema.Required {
		if stringArg(args, key) == "" {
			d.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)
			return tools.ErrorResult(fmt.Sprintf("Error: missing required argument: %s", key))
		}
	}

	started := time.Now()
	payload, err := d.invoke(ctx, name, args)
	d.metrics.RecordTimer(telemetry.MetricStoreLatency, time.Since(started))
	if err != nil {
		d.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)
		return tools.ErrorResult("Error: " + err.Error())
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		d.metrics.IncrementCounter(telemetry.MetricToolErrors, 1)
		return tools.ErrorResult("Error: " + err.Error())
	}

	return tools.TextResult(string(text))
}

// invoke runs the store operation for one catalog entry and returns
// the payload to serialize into the result envelope.
func (d *Dispatcher) invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case tools.ToolListArticles:
		return d.store.List(ctx)

	case tools.ToolGetArticle:
		return d.store.Get(ctx, stringArg(args, "slug"))

	case tools.ToolCreateArticle:
		return d.store.Create(ctx,
			stringArg(args, "title"),
			stringArg(args, "content"),
			stringArg(args, "category"),
			stringArg(args, "excerpt"))

	case tools.ToolEditArticle:
		fields := store.Fields{
			Title:    stringArg(args, "title"),
			Content:  stringArg(args, "content"),
			Category: stringArg(args, "category"),
			Excerpt:  stringArg(args, "excerpt"),
		}
		return d.store.Update(ctx, stringArg(args, "slug"), fields)

	case tools.ToolDeleteArticle:
		slug := stringArg(args, "slug")
		if err := d.store.Delete(ctx, slug); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": slug}, nil

	case tools.ToolUpdateTheme:
		themeStore, ok := d.store.(store.ThemeStore)
		if !ok {
			return nil, fmt.Errorf("backend does not support theme updates")
		}
		primary := stringArg(args, "primary")
		accent := stringArg(args, "accent")
		if err := themeStore.UpdateTheme(ctx, primary, accent); err != nil {
			return nil, err
		}
		return map[string]any{"updated": true, "colors": themeColors(primary, accent)}, nil

	case tools.ToolGetSiteConfig:
		configStore, ok := d.store.(store.SiteConfigStore)
		if !ok {
			return nil, fmt.Errorf("backend does not hold site configuration")
		}
		return configStore.GetSiteConfig(ctx)

	case tools.ToolUpdateSiteConfig:
		configStore, ok := d.store.(store.SiteConfigStore)
		if !ok {
			return nil, fmt.Errorf("backend does not hold site configuration")
		}
		fields := store.SiteConfigFields{
			SiteName:        stringArg(args, "siteName"),
			SiteDescription: stringArg(args, "siteDescription"),
			HeroTitle:       stringArg(args, "heroTitle"),
			HeroDescription: stringArg(args, "heroDescription"),
		}
		return configStore.UpdateSiteConfig(ctx, fields)

	case tools.ToolPublishChanges:
		publisher, ok := d.store.(store.Publisher)
		if !ok {
			return nil, fmt.Errorf("backend does not support publishing")
		}
		if err := publisher.Publish(ctx, stringArg(args, "message")); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "message": "Changes published successfully"}, nil
	}

	return nil, fmt.Errorf("unknown tool: %s", name)
}

// stringArg extracts a string argument, treating absent and non-string
// values as empty.
func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	value, ok := args[key].(string)
	if !ok {
		return ""
	}
	return value
}
