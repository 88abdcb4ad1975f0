package microstate

import (
	"fmt"

	"github.com/goliatone/go-microstate/internal/hydrate"
)

// DecodeOption configures DecodeState.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	weak   bool
	strict bool
}

// DecodeWeaklyTyped converts between scalar kinds while decoding.
func DecodeWeaklyTyped() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.weak = true
	}
}

// DecodeStrict fails when the collapsed state holds fields T does not
// declare.
func DecodeStrict() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.strict = true
	}
}

// DecodeState collapses n and decodes the result into T. Struct fields are
// matched by their json tag.
func DecodeState[T any](n *Node, opts ...DecodeOption) (T, error) {
	var zero T
	if n == nil {
		return zero, fmt.Errorf("microstate: decode state: %w", ErrNilType)
	}

	cfg := decodeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	collapsed, err := n.Collapsed()
	if err != nil {
		return zero, err
	}
	payload, ok := collapsed.(map[string]any)
	if !ok {
		return zero, fmt.Errorf("microstate: decode state %s: %w: got %T", describePath(n.path.String()), ErrInvalidInstance, collapsed)
	}

	var decoderOpts []hydrate.DecoderOption[T]
	if cfg.weak {
		decoderOpts = append(decoderOpts, hydrate.WithWeaklyTypedInput[T]())
	}
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithErrorUnused[T]())
	}
	ctx := hydrate.Context{Path: n.path.String(), Type: n.typ.Name()}
	return hydrate.NewDecoder(decoderOpts...).Decode(ctx, payload)
}
