package parser

// documentSchema is the Phase A schema: it checks only the shape of the
// top-level document. Per-node and edge semantics are checked in Phase B,
// since gojsonschema cannot express "every string-valued edge target must
// resolve to a sibling node id".
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "version", "workflow"],
  "additionalProperties": false,
  "properties": {
    "id": {
      "type": "string",
      "pattern": "^[a-z0-9][a-z0-9-_]*$"
    },
    "name": {
      "type": "string",
      "minLength": 1
    },
    "version": {
      "type": "string",
      "pattern": "^\\d+\\.\\d+\\.\\d+$"
    },
    "initialState": {
      "type": "object"
    },
    "workflow": {
      "oneOf": [
        {
          "type": "object",
          "minProperties": 1
        },
        {
          "type": "array",
          "minItems": 1
        }
      ]
    }
  }
}`
