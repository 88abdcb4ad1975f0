package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Validate loads document with kin-openapi and checks it against the OpenAPI 3
// rules.
func Validate(ctx context.Context, document map[string]any) error {
	payload, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("openapi: marshal document: %w", err)
	}
	loaded, err := openapi3.NewLoader().LoadFromData(payload)
	if err != nil {
		return fmt.Errorf("openapi: load document: %w", err)
	}
	if err := loaded.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: invalid document: %w", err)
	}
	return nil
}
