// Package markdownsource adapts a tree of markdown documents into
// translatable resources. Each .md file contributes its frontmatter
// title and description as atomic string fields and its rendered body
// as a composite html field.
package markdownsource

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-translations/bundle"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
	"github.com/goliatone/go-translations/reconcile"
)

// DefaultResourceType is the resource type assigned to documents unless
// overridden.
const DefaultResourceType = "doc"

// Source walks a filesystem of markdown documents and exposes them as
// reconcile resources. The source is stateless between calls: every
// Resources invocation re-reads the tree, so edits on disk are picked up
// without invalidation hooks.
type Source struct {
	fsys         fs.FS
	resourceType string
	engine       goldmark.Markdown
	logger       interfaces.Logger
}

var _ reconcile.Source = (*Source)(nil)

// Option customizes a Source.
type Option func(*Source)

// WithResourceType overrides the resource type used for document keys.
func WithResourceType(typ string) Option {
	return func(s *Source) {
		if typ != "" {
			s.resourceType = typ
		}
	}
}

// WithLogger attaches a logger for walk and parse diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a source over the filesystem. Use os.DirFS to point it
// at a content directory.
func New(fsys fs.FS, opts ...Option) *Source {
	s := &Source{
		fsys:         fsys,
		resourceType: DefaultResourceType,
		engine:       newEngine(),
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newEngine builds the markdown renderer. GFM extensions and raw HTML
// passthrough mirror what authors expect from the content pipeline.
func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// documentMeta is the frontmatter envelope read from each file.
type documentMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
}

// Resources walks the tree and returns one resource per markdown file,
// sorted by resource key. Draft documents are skipped.
func (s *Source) Resources(ctx context.Context) ([]reconcile.Resource, error) {
	var resources []reconcile.Resource

	err := fs.WalkDir(s.fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			return nil
		}

		resource, draft, err := s.readDocument(name)
		if err != nil {
			return fmt.Errorf("markdownsource: %s: %w", name, err)
		}
		if draft {
			s.logger.Debug("draft skipped", "path", name)
			return nil
		}
		resources = append(resources, resource)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Key.String() < resources[j].Key.String()
	})
	return resources, nil
}

func (s *Source) readDocument(name string) (reconcile.Resource, bool, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return reconcile.Resource{}, false, err
	}

	var meta documentMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return reconcile.Resource{}, false, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Draft {
		return reconcile.Resource{}, true, nil
	}

	var rendered bytes.Buffer
	if err := s.engine.Convert(body, &rendered); err != nil {
		return reconcile.Resource{}, false, fmt.Errorf("render markdown: %w", err)
	}

	slug := strings.TrimSuffix(name, path.Ext(name))
	title := meta.Title
	if title == "" {
		title = slug
	}

	fields := []reconcile.SourceField{
		{
			Name:        "title",
			Label:       "Title",
			Type:        bundle.FieldTypeString,
			Value:       title,
			Description: "The document title",
		},
	}
	if meta.Description != "" {
		fields = append(fields, reconcile.SourceField{
			Name:        "description",
			Label:       "Description",
			Type:        bundle.FieldTypeString,
			Value:       meta.Description,
			Description: "Short summary shown in listings",
		})
	}
	fields = append(fields, reconcile.SourceField{
		Name:  "body",
		Label: "Body",
		Type:  bundle.FieldTypeHTML,
		Value: strings.TrimSpace(rendered.String()),
	})

	return reconcile.Resource{
		Key:    bundle.NewResourceKey(s.resourceType, slug),
		Title:  title,
		Fields: fields,
	}, false, nil
}
