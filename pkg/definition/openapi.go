package definition

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-stepform/pkg/form"
)

// Vendor extensions read from request body properties and operations.
const (
	ExtStep     = "x-stepform-step"
	ExtOrder    = "x-stepform-order"
	ExtConfirms = "x-stepform-confirms"
	ExtSteps    = "x-stepform-steps"

	defaultStepName = "main"
)

// ErrOperationNotFound is returned when the requested operation is missing.
var ErrOperationNotFound = errors.New("definition: operation not found")

// FromOpenAPI builds a definition from an operation's request body schema.
// Each property becomes a field; x-stepform-step assigns it to a step and
// x-stepform-confirms: <field> adds a mismatch rule with that field.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if len(data) == 0 {
		return Definition{}, errors.New("definition: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: load openapi document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return Definition{}, errors.New("definition: openapi document does not contain any paths")
	}

	method, path, op := findOperation(doc, operationID)
	if op == nil {
		return Definition{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil || len(schema.Properties) == 0 {
		return Definition{}, fmt.Errorf("%w: operation %q has no request body properties", ErrInvalidDefinition, operationID)
	}

	def := Definition{
		ID:       operationID,
		Title:    op.Summary,
		Endpoint: endpointFor(doc, path),
		Method:   method,
		Source:   "openapi:" + operationID,
	}
	def.Steps = stepsFromSchema(schema, stringList(op.Extensions[ExtSteps]))
	return normalise(def)
}

func findOperation(doc *openapi3.T, operationID string) (string, string, *openapi3.Operation) {
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return strings.ToUpper(method), path, op
			}
		}
	}
	return "", "", nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func endpointFor(doc *openapi3.T, path string) string {
	if len(doc.Servers) == 0 || doc.Servers[0] == nil {
		return ""
	}
	base, err := url.Parse(strings.TrimRight(doc.Servers[0].URL, "/"))
	if err != nil || !base.IsAbs() {
		return ""
	}
	return base.String() + path
}

type schemaField struct {
	step  string
	order int
	field Field
	pairs string
}

func stepsFromSchema(schema *openapi3.Schema, stepOrder []string) []Step {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var collected []schemaField
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		sf := schemaField{
			step:  stringValue(prop.Extensions[ExtStep]),
			order: intValue(prop.Extensions[ExtOrder]),
			pairs: stringValue(prop.Extensions[ExtConfirms]),
			field: propertyField(name, prop, required[name]),
		}
		if sf.step == "" {
			sf.step = defaultStepName
		}
		collected = append(collected, sf)
	}
	sort.SliceStable(collected, func(i, j int) bool {
		if collected[i].order != collected[j].order {
			return collected[i].order < collected[j].order
		}
		return collected[i].field.Name < collected[j].field.Name
	})

	byStep := make(map[string]*Step)
	var order []string
	for _, name := range stepOrder {
		if _, ok := byStep[name]; ok {
			continue
		}
		byStep[name] = &Step{Name: name}
		order = append(order, name)
	}
	for _, sf := range collected {
		step, ok := byStep[sf.step]
		if !ok {
			step = &Step{Name: sf.step}
			byStep[sf.step] = step
			order = append(order, sf.step)
		}
		step.Fields = append(step.Fields, sf.field)
		if sf.pairs != "" {
			step.Rules = append(step.Rules, GroupRule{
				Kind:   RuleMismatch,
				Fields: []string{sf.pairs, sf.field.Name},
			})
		}
	}

	steps := make([]Step, 0, len(order))
	for _, name := range order {
		if len(byStep[name].Fields) == 0 {
			continue
		}
		steps = append(steps, *byStep[name])
	}
	return steps
}

func propertyField(name string, prop *openapi3.Schema, required bool) Field {
	field := Field{
		Name:      name,
		Label:     prop.Title,
		Required:  required,
		MinLength: int(prop.MinLength),
		Pattern:   prop.Pattern,
	}
	if prop.MaxLength != nil {
		field.MaxLength = int(*prop.MaxLength)
	}
	if prop.Default != nil {
		field.Initial = fmt.Sprint(prop.Default)
	}
	for _, value := range prop.Enum {
		field.Options = append(field.Options, fmt.Sprint(value))
	}

	switch {
	case hasType(prop.Type, "boolean"):
		field.Kind = form.KindCheckbox
	case prop.Format == "email":
		field.Kind = form.KindEmail
		field.Email = true
	case prop.Format == "date":
		field.Kind = form.KindDate
	case len(field.Options) > 0:
		field.Kind = form.KindSelect
	}
	return field
}

func hasType(types *openapi3.Types, want string) bool {
	if types == nil {
		return false
	}
	for _, t := range types.Slice() {
		if t == want {
			return true
		}
	}
	return false
}

func stringValue(raw any) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}

func intValue(raw any) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
