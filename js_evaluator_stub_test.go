//go:build !js_eval

package microstate

import (
	"errors"
	"testing"
)

func TestJSEngineRequiresBuildTag(t *testing.T) {
	if jsEvaluatorAvailable() || NewJSEvaluator() != nil {
		t.Fatalf("expected js evaluator to be unavailable")
	}
	_, err := LoadDefinitions([]byte("engine: js\ntypes: {}\n"))
	if !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}
