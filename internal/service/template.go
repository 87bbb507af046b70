package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/whatsflow/crm-platform/internal/model"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
	"github.com/whatsflow/crm-platform/pkg/metrics"
)

// placeholderPattern matches {{variable}} placeholders, with optional
// inner whitespace.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// TemplateService handles message template operations.
type TemplateService struct {
	store  *store.Store[*model.Template]
	logger *logger.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(st *store.Store[*model.Template], log *logger.Logger) *TemplateService {
	return &TemplateService{store: st, logger: log}
}

// ExtractVariables returns the placeholder names of a template body in
// first-occurrence order, deduplicated.
func ExtractVariables(content string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var vars []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

// Create creates a template. Variables are derived from the content,
// never taken from the caller.
func (s *TemplateService) Create(ctx context.Context, req *model.CreateTemplateRequest) (*model.Template, error) {
	tmpl := &model.Template{
		Name:        req.Name,
		Content:     req.Content,
		Category:    req.Category,
		Type:        req.Type,
		Variables:   ExtractVariables(req.Content),
		Media:       req.Media,
		Interactive: req.Interactive,
		Location:    req.Location,
		Contact:     req.Contact,
	}
	if tmpl.Type == "" {
		tmpl.Type = model.TemplateTypeText
	}
	return s.store.Create(ctx, tmpl)
}

// GetAll retrieves every template.
func (s *TemplateService) GetAll(ctx context.Context) ([]*model.Template, error) {
	return s.store.GetAll(ctx)
}

// GetByID retrieves a template by id.
func (s *TemplateService) GetByID(ctx context.Context, id int) (*model.Template, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a patch to a template, recomputing the variable set
// whenever the content changes.
func (s *TemplateService) Update(ctx context.Context, id int, req *model.UpdateTemplateRequest) (*model.Template, error) {
	return s.store.Update(ctx, id, func(t *model.Template) {
		if req.Name != "" {
			t.Name = req.Name
		}
		if req.Content != "" {
			t.Content = req.Content
			t.Variables = ExtractVariables(req.Content)
		}
		if req.Category != "" {
			t.Category = req.Category
		}
		if req.Type != "" {
			t.Type = req.Type
		}
		if req.Media != nil {
			t.Media = req.Media
		}
		if req.Interactive != nil {
			t.Interactive = req.Interactive
		}
		if req.Location != nil {
			t.Location = req.Location
		}
		if req.Contact != nil {
			t.Contact = req.Contact
		}
	})
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// Render substitutes values into a template's placeholders. Variables
// missing from the value map are left in place and reported.
func (s *TemplateService) Render(ctx context.Context, id int, values map[string]string) (*model.RenderTemplateResponse, error) {
	tmpl, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var missing []string
	content := placeholderPattern.ReplaceAllStringFunc(tmpl.Content, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := values[name]; ok {
			return v
		}
		missing = append(missing, name)
		return match
	})

	metrics.TemplateRendersTotal.Inc()
	return &model.RenderTemplateResponse{Content: content, Missing: missing}, nil
}

// FilterByCategory returns templates with the exact category, newest
// first.
func (s *TemplateService) FilterByCategory(ctx context.Context, category string) ([]*model.Template, error) {
	found, err := s.store.Find(ctx, func(t *model.Template) bool {
		return t.Category == category
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].UpdatedAt.After(found[j].UpdatedAt)
	})
	return found, nil
}

// SearchByContent finds templates whose name or content contains the
// query, case-insensitively.
func (s *TemplateService) SearchByContent(ctx context.Context, query string) ([]*model.Template, error) {
	needle := strings.ToLower(query)
	return s.store.Find(ctx, func(t *model.Template) bool {
		return strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(t.Content), needle)
	})
}
