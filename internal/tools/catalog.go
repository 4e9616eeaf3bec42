package tools

// Property describes one argument of a tool.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema is the JSON-Schema shape of a tool's argument bag.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Descriptor describes one tool in the advertised catalog.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// ContentBlock is one element of a tool call result envelope.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the uniform tool call envelope: textual content plus
// an error flag.
type CallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// TextResult wraps a successful textual payload in the envelope.
func TextResult(text string) CallResult {
	return CallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ErrorResult wraps an error message in the envelope.
func ErrorResult(text string) CallResult {
	return CallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

// CatalogOptions selects which capability-gated tools appear in the
// catalog. The article CRUD tools are always present.
type CatalogOptions struct {
	SiteConfig bool
	Theme      bool
	Publish    bool
}

// Catalog returns the ordered tool descriptor list advertised on a
// describe request. Every name here must have a matching dispatcher
// case, and vice versa.
func Catalog(opts CatalogOptions) []Descriptor {
	catalog := []Descriptor{
		{
			Name:        ToolListArticles,
			Description: "List all articles on the website",
			InputSchema: Schema{
				Type:       "object",
				Properties: map[string]Property{},
			},
		},
		{
			Name:        ToolGetArticle,
			Description: "Get the full content of a specific article",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Property{
					"slug": {Type: "string", Description: "The article slug"},
				},
				Required: []string{"slug"},
			},
		},
		{
			Name:        ToolCreateArticle,
			Description: "Create a new article on the website",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Property{
					"title":    {Type: "string", Description: "The article title"},
					"content":  {Type: "string", Description: "The article content in markdown"},
					"category": {Type: "string", Description: "The article category"},
					"excerpt":  {Type: "string", Description: "A short excerpt/summary of the article"},
				},
				Required: []string{"title", "content", "category", "excerpt"},
			},
		},
		{
			Name:        ToolEditArticle,
			Description: "Edit an existing article",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Property{
					"slug":     {Type: "string", Description: "The article slug to edit"},
					"title":    {Type: "string", Description: "New title (optional)"},
					"content":  {Type: "string", Description: "New content (optional)"},
					"category": {Type: "string", Description: "New category (optional)"},
					"excerpt":  {Type: "string", Description: "New excerpt (optional)"},
				},
				Required: []string{"slug"},
			},
		},
		{
			Name:        ToolDeleteArticle,
			Description: "Delete an article from the website",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Property{
					"slug": {Type: "string", Description: "The article slug to delete"},
				},
				Required: []string{"slug"},
			},
		},
	}

	if opts.Theme {
		catalog = append(catalog, Descriptor{
			Name:        ToolUpdateTheme,
			Description: "Update the website theme colors",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Property{
					"primary": {Type: "string", Description: "Primary color hex code (e.g., #1e40af)"},
					"accent":  {Type: "string", Description: "Accent color hex code (e.g., #0891b2)"},
				},
			},
		})
	}

	if opts.SiteConfig {
		catalog = append(catalog,
			Descriptor{
				Name:        ToolGetSiteConfig,
				Description: "Get the current site configuration",
				InputSchema: Schema{
					Type:       "object",
					Properties: map[string]Property{},
				},
			},
			Descriptor{
				Name:        ToolUpdateSiteConfig,
				Description: "Update site configuration (name, description, etc.)",
				InputSchema: Schema{
					Type: "object",
					Properties: map[string]Property{
						"siteName":        {Type: "string", Description: "The site name"},
						"siteDescription": {Type: "string", Description: "The site description"},
						"heroTitle":       {Type: "string", Description: "Homepage hero title"},
						"heroDescription": {Type: "string", Description: "Homepage hero description"},
					},
				},
			},
		)
	}

	if opts.Publish {
		catalog = append(catalog, Descriptor{
			Name:        ToolPublishChanges,
			Description: "Commit and push all changes to deploy the website",
			InputSchema: Schema{
				Type: "object",
				Properties: map[string]Property{
					"message": {Type: "string", Description: "Commit message describing the changes"},
				},
				Required: []string{"message"},
			},
		})
	}

	return catalog
}
