package gemini

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// convSchema は、JSONスキーマをGemini APIのスキーマに変換します
func convSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	enums := make([]string, 0, len(schema.Enum))
	for _, v := range schema.Enum {
		enums = append(enums, fmt.Sprintf("%v", v))
	}

	gs := genai.Schema{
		Format:           schema.Format,
		Description:      schema.Description,
		Enum:             enums,
		Items:            convSchema(schema.Items),
		Required:         schema.Required,
		PropertyOrdering: schema.PropertyOrder,
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = convSchema(prop)
		}
	}

	typ := schema.Type
	if typ == "" {
		// ["null", "array"] のような複数型は最初の非null型を採用する
		for _, t := range schema.Types {
			if t == "null" {
				nullable := true
				gs.Nullable = &nullable
				continue
			}
			if typ == "" {
				typ = t
			}
		}
	}

	switch typ {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}
