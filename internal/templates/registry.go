package templates

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shokulab/backend/internal/models"
)

var ErrTemplateNotFound = errors.New("template not found")

type Field struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Type        string `json:"type"` // text / textarea
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder"`
}

type Template struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	UserFriendlyTitle string  `json:"user_friendly_title"`
	Description       string  `json:"description"`
	CustomFields      []Field `json:"custom_fields"`
	Text              string  `json:"template"`
}

// Clauses holds the two mandatory legal blocks.
type Clauses struct {
	PlatformDisclaimer string `json:"platform_disclaimer"`
	FinalClause        string `json:"final_clause"`
}

// Tokens that are not field keys.
const (
	tokenPlatformDisclaimer = "platformDisclaimer"
	tokenFinalClause        = "finalClause"
	tokenContractDate       = "contractDate"
)

// partyAliases maps every party-name placeholder used by the catalogue to
// the party it stands for: A is the contract creator, B the counterparty.
var partyAliases = []struct {
	token  string
	partyB bool
}{
	{"supplierName", false},
	{"buyerName", true},
	{"organizerA", false},
	{"organizerB", true},
	{"lender", false},
	{"borrower", true},
}

var tokenRE = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Registry is the immutable template catalogue.
type Registry struct {
	templates []Template
	byID      map[string]int
	clauses   Clauses
}

// NewRegistry validates the catalogue and fails on any placeholder that the
// generator could not resolve.
func NewRegistry(tmpls []Template, clauses Clauses) (*Registry, error) {
	r := &Registry{
		templates: make([]Template, 0, len(tmpls)),
		byID:      make(map[string]int, len(tmpls)),
		clauses:   clauses,
	}

	if err := checkClauses(clauses); err != nil {
		return nil, err
	}

	for _, t := range tmpls {
		if t.ID == "" {
			return nil, fmt.Errorf("template with empty id")
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		if err := checkTemplate(t); err != nil {
			return nil, err
		}
		r.byID[t.ID] = len(r.templates)
		r.templates = append(r.templates, cloneTemplate(t))
	}
	return r, nil
}

// MustDefaultRegistry builds the registry from the built-in catalogue.
func MustDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultTemplates(), DefaultClauses())
	if err != nil {
		panic(err)
	}
	return r
}

// List returns the catalogue in its fixed order.
func (r *Registry) List() []Template {
	out := make([]Template, len(r.templates))
	for i, t := range r.templates {
		out[i] = cloneTemplate(t)
	}
	return out
}

func (r *Registry) Get(id string) (Template, error) {
	i, ok := r.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return cloneTemplate(r.templates[i]), nil
}

func (r *Registry) Clauses() Clauses {
	return r.clauses
}

func checkTemplate(t Template) error {
	known := map[string]bool{
		tokenPlatformDisclaimer: true,
		tokenFinalClause:        true,
		tokenContractDate:       true,
	}
	for _, a := range partyAliases {
		known[a.token] = true
	}
	known[models.ContentKeyValue] = true
	known[models.ContentKeyMethod] = true
	for _, f := range t.CustomFields {
		if f.Key == "" {
			return fmt.Errorf("template %s: field with empty key", t.ID)
		}
		if known[f.Key] {
			return fmt.Errorf("template %s: field key %q shadows a reserved token", t.ID, f.Key)
		}
		if f.Type != FieldTypeText && f.Type != FieldTypeTextarea {
			return fmt.Errorf("template %s: field %s has unknown type %q", t.ID, f.Key, f.Type)
		}
		known[f.Key] = true
	}

	for _, m := range tokenRE.FindAllStringSubmatch(t.Text, -1) {
		if !known[m[1]] {
			return fmt.Errorf("template %s: unresolvable placeholder {%s}", t.ID, m[1])
		}
	}
	return nil
}

func checkClauses(c Clauses) error {
	if m := tokenRE.FindStringSubmatch(c.PlatformDisclaimer); m != nil {
		return fmt.Errorf("platform disclaimer must not contain placeholders, found {%s}", m[1])
	}
	for _, m := range tokenRE.FindAllStringSubmatch(c.FinalClause, -1) {
		if m[1] != tokenContractDate {
			return fmt.Errorf("final clause may only contain {%s}, found {%s}", tokenContractDate, m[1])
		}
	}
	return nil
}

func cloneTemplate(t Template) Template {
	fields := make([]Field, len(t.CustomFields))
	copy(fields, t.CustomFields)
	t.CustomFields = fields
	return t
}
