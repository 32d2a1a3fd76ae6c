package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidDraftDocument is returned when a stored draft does not match the draft schema.
var ErrInvalidDraftDocument = errors.New("invalid draft document")

// draftSchema describes the stored draft document. Unknown keys are tolerated
// so that older clients can still read drafts written by newer ones.
const draftSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"definitions": {
		"text": {"type": "string"},
		"positive": {"type": "number", "minimum": 0},
		"list": {"type": "array", "items": {"type": "string"}, "uniqueItems": true}
	},
	"properties": {
		"full_name": {"$ref": "#/definitions/text"},
		"email": {"$ref": "#/definitions/text"},
		"gender": {"$ref": "#/definitions/text"},
		"age": {"$ref": "#/definitions/positive"},
		"height_cm": {"$ref": "#/definitions/positive"},
		"weight_kg": {"$ref": "#/definitions/positive"},
		"goal_weight_kg": {"$ref": "#/definitions/positive"},
		"goal": {"$ref": "#/definitions/text"},
		"goal_other": {"$ref": "#/definitions/text"},
		"activity_level": {"$ref": "#/definitions/text"},
		"diet_type": {"$ref": "#/definitions/text"},
		"diet_type_other": {"$ref": "#/definitions/text"},
		"allergies": {"$ref": "#/definitions/list"},
		"meals_per_day": {"$ref": "#/definitions/positive"},
		"cooking_skill": {"$ref": "#/definitions/text"},
		"cooking_time_minutes": {"$ref": "#/definitions/positive"},
		"budget": {"$ref": "#/definitions/text"},
		"cuisines": {"$ref": "#/definitions/list"},
		"favorite_ingredient_ids": {"$ref": "#/definitions/list"},
		"hated_ingredient_ids": {"$ref": "#/definitions/list"},
		"water_liters": {"$ref": "#/definitions/positive"},
		"protein_share_percent": {"type": "number", "minimum": 0, "maximum": 100},
		"sleep_hours": {"type": "number", "minimum": 0, "maximum": 24},
		"consent": {"$ref": "#/definitions/text"},
		"user_preference_id": {"$ref": "#/definitions/text"},
		"updated_at": {"type": "string"}
	}
}`

var (
	compiledDraftSchema *gojsonschema.Schema
	compileDraftOnce    sync.Once
	errCompileDraft     error
)

func draftSchemaValidator() (*gojsonschema.Schema, error) {
	compileDraftOnce.Do(func() {
		compiledDraftSchema, errCompileDraft = gojsonschema.NewSchema(gojsonschema.NewStringLoader(draftSchema))
	})

	return compiledDraftSchema, errCompileDraft
}

// ParseDraft decodes a stored draft document, rejecting anything that is not
// valid JSON or does not match the draft schema.
func ParseDraft(raw []byte) (Draft, error) {
	schema, err := draftSchemaValidator()
	if err != nil {
		return Draft{}, fmt.Errorf("failed to compile draft schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrInvalidDraftDocument, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return Draft{}, fmt.Errorf("%w: %s", ErrInvalidDraftDocument, strings.Join(problems, "; "))
	}

	var draft Draft

	err = json.Unmarshal(raw, &draft)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrInvalidDraftDocument, err)
	}

	return draft, nil
}

// EncodeDraft serializes a draft into its stored document form.
func EncodeDraft(draft Draft) ([]byte, error) {
	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	return raw, nil
}
