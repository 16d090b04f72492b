// Package schema describes the CMS document types and checks documents
// against them.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType is the CMS type of a field.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeText     FieldType = "text"
	TypeBlock    FieldType = "blockContent"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDatetime FieldType = "datetime"
	TypeURL      FieldType = "url"
	TypeSlug     FieldType = "slug"
	TypeImage    FieldType = "image"
	TypeObject   FieldType = "object"
	TypeArray    FieldType = "array"
	TypeRef      FieldType = "reference"
)

// Field is one field of a document or object.
type Field struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	// Check validates a non-empty string value.
	Check   func(string) bool `json:"-"`
	Rule    string            `json:"rule,omitempty"`
	Fields  []Field           `json:"fields,omitempty"`
	Of      []Field           `json:"of,omitempty"`
	To      string            `json:"to,omitempty"`
	Options []string          `json:"options,omitempty"`
}

// Document is a top-level document type.
type Document struct {
	Name      string  `json:"name"`
	Title     string  `json:"title"`
	Singleton bool    `json:"singleton,omitempty"`
	Fields    []Field `json:"fields"`
	// Preview names the fields shown in Studio lists.
	Preview []string `json:"preview,omitempty"`
}

// FieldError is a validation failure at a dotted field path.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Path + ": " + e.Message
}

var registry = map[string]Document{}

func register(d Document) {
	registry[d.Name] = d
}

// Lookup returns the document type called name.
func Lookup(name string) (Document, bool) {
	d, ok := registry[name]
	return d, ok
}

// Types returns all document type names, sorted.
func Types() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks doc against the document type docType.
func Validate(docType string, doc map[string]any) []error {
	d, ok := Lookup(docType)
	if !ok {
		return []error{fmt.Errorf("unknown document type %q", docType)}
	}
	var errs []error
	validateFields("", d.Fields, doc, &errs)
	return errs
}

func validateFields(prefix string, fields []Field, obj map[string]any, errs *[]error) {
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		validateValue(path, f, obj[f.Name], errs)
	}
}

func validateValue(path string, f Field, v any, errs *[]error) {
	if isEmpty(v) {
		if f.Required {
			*errs = append(*errs, &FieldError{Path: path, Message: "required"})
		}
		return
	}

	fail := func(msg string) {
		*errs = append(*errs, &FieldError{Path: path, Message: msg})
	}

	switch f.Type {
	case TypeString, TypeText, TypeURL, TypeDate, TypeDatetime:
		s, ok := v.(string)
		if !ok {
			fail(fmt.Sprintf("expected %s, got %T", f.Type, v))
			return
		}
		if f.Type == TypeURL && !ValidURL(s) {
			fail("must be an absolute http(s) URL")
		}
		if len(f.Options) > 0 && !contains(f.Options, s) {
			fail(fmt.Sprintf("must be one of %s", strings.Join(f.Options, ", ")))
		}
		if f.Check != nil && !f.Check(s) {
			fail(f.Rule)
		}
	case TypeNumber:
		if _, ok := v.(float64); !ok {
			fail(fmt.Sprintf("expected number, got %T", v))
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			fail(fmt.Sprintf("expected boolean, got %T", v))
		}
	case TypeSlug:
		m, ok := v.(map[string]any)
		cur, _ := m["current"].(string)
		if !ok || cur == "" {
			if f.Required {
				fail("required")
			}
			return
		}
		if !ValidSlug(cur) {
			fail("slug must be lowercase words separated by hyphens")
		}
	case TypeImage, TypeRef, TypeBlock:
		// Shapes owned by the CMS; presence is all we check.
	case TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			fail(fmt.Sprintf("expected object, got %T", v))
			return
		}
		validateFields(path, f.Fields, m, errs)
	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			fail(fmt.Sprintf("expected array, got %T", v))
			return
		}
		if len(f.Of) == 0 {
			return
		}
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			validateFields(fmt.Sprintf("%s[%d]", path, i), f.Of, m, errs)
		}
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
