// Copyright (C) 2026  The mailroom authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package templates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/induscare/mailroom/internal/models"
)

var (
	// ErrNilTemplate is returned when rendering without a template.
	ErrNilTemplate = errors.New("templates: template is nil")
	// ErrInactiveTemplate is returned when rendering a disabled template.
	ErrInactiveTemplate = errors.New("templates: template is inactive")
)

// placeholderPattern matches "{{ path.to.value }}" placeholders. Paths are
// dot separated identifiers, whitespace inside the braces is ignored.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*)\s*\}\}`)

// Rendered is the outcome of interpolating a template with a context. The
// text part is empty when the template has no plaintext alternative.
type Rendered struct {
	Subject     string
	HTMLContent string
	TextContent string
}

// Render interpolates subject, html and text of a template with the given
// context. Placeholders without a binding resolve to the empty string, so
// rendering the same template with the same context is deterministic.
func Render(template *models.TemplateEntity, data models.ContextMap) (*Rendered, error) {
	if template == nil {
		return nil, ErrNilTemplate
	}

	if !template.IsActive {
		return nil, fmt.Errorf("%w: %q", ErrInactiveTemplate, template.Name)
	}

	rendered := Rendered{
		Subject:     Interpolate(template.Subject, data),
		HTMLContent: Interpolate(template.HTMLContent, data),
	}

	if template.TextContent.Valid {
		rendered.TextContent = Interpolate(template.TextContent.String, data)
	}

	return &rendered, nil
}

// Interpolate replaces every placeholder in blueprint with the value found
// under its dotted path in data.
func Interpolate(blueprint string, data models.ContextMap) string {
	return placeholderPattern.ReplaceAllStringFunc(blueprint, func(match string) string {
		path := placeholderPattern.FindStringSubmatch(match)[1]

		value, ok := data.Lookup(path)
		if !ok {
			return ""
		}

		return formatValue(value)
	})
}

// MissingVariables returns the placeholder paths of a template that have no
// binding in data, in order of first appearance and without duplicates.
func MissingVariables(template *models.TemplateEntity, data models.ContextMap) []string {
	var (
		missing []string
		seen    = make(map[string]struct{})
	)

	for _, blueprint := range blueprints(template) {
		for _, submatch := range placeholderPattern.FindAllStringSubmatch(blueprint, -1) {
			path := submatch[1]

			if _, ok := seen[path]; ok {
				continue
			}

			seen[path] = struct{}{}

			if _, ok := data.Lookup(path); !ok {
				missing = append(missing, path)
			}
		}
	}

	return missing
}

// Validate checks a template against the sample context built from its own
// declared variables and returns the placeholder paths that would render
// empty. Catalog writes log the result as a warning; the save itself is never
// rejected.
func Validate(template *models.TemplateEntity) []string {
	return MissingVariables(template, SampleContext(template.Variables))
}

// SampleContext expands flat declared variable paths ("user.name") into the
// nested context shape a dispatching caller would provide. The declared
// description doubles as the sample value.
func SampleContext(variables models.ContextMap) models.ContextMap {
	sample := models.ContextMap{}

	for path, value := range variables {
		var (
			parts   = strings.Split(path, ".")
			current = map[string]interface{}(sample)
		)

		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]interface{})
			if !ok {
				next = map[string]interface{}{}
				current[part] = next
			}

			current = next
		}

		current[parts[len(parts)-1]] = value
	}

	return sample
}

func blueprints(template *models.TemplateEntity) []string {
	slice := []string{template.Subject, template.HTMLContent}

	if template.TextContent.Valid {
		slice = append(slice, template.TextContent.String)
	}

	return slice
}

// formatValue converts a context value to its textual form. Numbers are
// json.Unmarshal floats and must not render an exponent for whole values.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
