// Package definition describes step forms declaratively. Definitions load from
// JSON or YAML files, from the embedded contact form, or from an OpenAPI
// operation, and compile into a form.Form plus display metadata.
package definition
