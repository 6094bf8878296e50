package jsonschema

import "encoding/json"

// Document is a generated JSON Schema ready for serialisation.
type Document struct {
	Draft                string
	ID                   string
	Title                string
	Properties           map[string]any
	AdditionalProperties bool
}

// Body assembles the schema object in its wire shape.
func (d Document) Body() map[string]any {
	return map[string]any{
		"$schema":              d.Draft,
		"$id":                  d.ID,
		"title":                d.Title,
		"type":                 "object",
		"properties":           d.Properties,
		"additionalProperties": d.AdditionalProperties,
	}
}

// ToJSON serialises the document with stable indentation.
func (d Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d.Body(), "", "  ")
}
