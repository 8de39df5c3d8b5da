package scene

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/flowmotion/flowmotion/pkg/errors"
)

// sceneSchemaJSON is the JSON Schema for raw scene documents.
// Embedded as a constant to avoid filesystem dependencies. Cross-reference
// checks (unknown ids, placement exclusivity) are handled by Scene.Validate;
// the schema covers shape, required fields, and kind enumerations.
const sceneSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowmotion.dev/schemas/scene.json",
  "type": "object",
  "required": ["grid", "nodes"],
  "properties": {
    "grid": {
      "type": "object",
      "required": ["rows", "cols", "width", "height"],
      "properties": {
        "rows": { "type": "integer", "minimum": 1 },
        "cols": { "type": "integer", "minimum": 1 },
        "width": { "type": "number", "exclusiveMinimum": 0 },
        "height": { "type": "number", "exclusiveMinimum": 0 },
        "header_frac": { "type": "number", "minimum": 0, "exclusiveMaximum": 1 },
        "footer_frac": { "type": "number", "minimum": 0, "exclusiveMaximum": 1 },
        "step_frac": { "type": "number", "minimum": 0, "exclusiveMaximum": 1 }
      },
      "additionalProperties": false
    },
    "nodes": {
      "type": "array",
      "items": { "$ref": "#/$defs/node" }
    },
    "containers": {
      "type": "array",
      "items": { "$ref": "#/$defs/container" }
    },
    "connections": {
      "type": "array",
      "items": { "$ref": "#/$defs/connection" }
    },
    "timeline": {
      "type": "array",
      "items": { "$ref": "#/$defs/phase" }
    },
    "header": { "type": "string" },
    "footer": { "type": "string" }
  },
  "additionalProperties": false,
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "icon": { "type": "string" },
        "row": { "type": "integer", "minimum": 0 },
        "col": { "type": "integer", "minimum": 0 },
        "row_span": { "type": "integer", "minimum": 1 },
        "col_span": { "type": "integer", "minimum": 1 },
        "container": { "type": "string" },
        "slot": { "type": "integer", "minimum": 0 },
        "align_container": { "type": "string" },
        "align_slot": { "type": "integer", "minimum": 0 },
        "width_frac": { "type": "number", "exclusiveMinimum": 0, "maximum": 1 },
        "height_frac": { "type": "number", "exclusiveMinimum": 0, "maximum": 1 }
      },
      "additionalProperties": false
    },
    "container": {
      "type": "object",
      "required": ["id", "row", "col_start", "col_end", "slots"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "row": { "type": "integer", "minimum": 0 },
        "row_end": { "type": "integer", "minimum": 0 },
        "col_start": { "type": "integer", "minimum": 0 },
        "col_end": { "type": "integer", "minimum": 0 },
        "slots": { "type": "integer", "minimum": 1 }
      },
      "additionalProperties": false
    },
    "edge": {
      "type": "string",
      "enum": ["left", "right", "top", "bottom"]
    },
    "endpoint": {
      "type": "object",
      "properties": {
        "node": { "type": "string" },
        "container": { "type": "string" },
        "edge": { "$ref": "#/$defs/edge" }
      },
      "additionalProperties": false
    },
    "connection": {
      "type": "object",
      "required": ["from", "to"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "from": { "$ref": "#/$defs/endpoint" },
        "to": { "$ref": "#/$defs/endpoint" },
        "from_edge": { "$ref": "#/$defs/edge" },
        "to_edge": { "$ref": "#/$defs/edge" },
        "waypoints": {
          "type": "array",
          "items": { "$ref": "#/$defs/point" }
        },
        "label": { "type": "string" },
        "label_offset": { "$ref": "#/$defs/point" }
      },
      "additionalProperties": false
    },
    "point": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": { "type": "number" },
        "y": { "type": "number" }
      },
      "additionalProperties": false
    },
    "phase": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {
          "type": "string",
          "enum": ["hold", "dim", "reveal", "sequence"]
        },
        "duration": { "type": "number", "minimum": 0 },
        "steps": {
          "type": "array",
          "items": { "$ref": "#/$defs/step" }
        }
      },
      "additionalProperties": false
    },
    "step": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {
          "type": "string",
          "enum": ["fillBox", "dimBox", "drawLine", "showContainer", "hold", "parallel"]
        },
        "node": { "type": "string" },
        "connection": { "type": "string" },
        "container": { "type": "string" },
        "duration": { "type": "number", "minimum": 0 },
        "label": {
          "type": "object",
          "required": ["ordinal", "text"],
          "properties": {
            "ordinal": { "type": "integer", "minimum": 1 },
            "text": { "type": "string" }
          },
          "additionalProperties": false
        },
        "group": { "type": "string" },
        "children": {
          "type": "array",
          "items": { "$ref": "#/$defs/step" }
        }
      },
      "additionalProperties": false
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiledSceneSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(sceneSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal scene schema: %w", err)
			return
		}
		if err := c.AddResource("https://flowmotion.dev/schemas/scene.json", doc); err != nil {
			schemaErr = fmt.Errorf("add scene schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("https://flowmotion.dev/schemas/scene.json")
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks raw JSON bytes against the scene JSON Schema.
// It catches shape errors (wrong types, unknown fields, missing required
// keys) before decoding; call Unmarshal afterwards for reference validation.
func ValidateDocument(data []byte) error {
	s, err := compiledSceneSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile scene schema")
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "scene document is not valid JSON")
	}

	if err := s.Validate(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "scene document violates schema")
	}
	return nil
}
