package hydrate

import (
	"errors"
	"strings"
	"testing"

	"github.com/mitchellh/mapstructure"
)

type counter struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

type box struct {
	Title string  `json:"title"`
	Inner counter `json:"inner"`
}

func TestDecoderDecodesNestedPayload(t *testing.T) {
	payload := map[string]any{
		"title": "box",
		"inner": map[string]any{"count": 6, "label": "clicks"},
	}

	decoded, err := NewDecoder[box]().Decode(Context{Type: "Box"}, payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Title != "box" || decoded.Inner.Count != 6 || decoded.Inner.Label != "clicks" {
		t.Fatalf("unexpected result %+v", decoded)
	}
}

func TestDecoderNilPayload(t *testing.T) {
	_, err := NewDecoder[counter]().Decode(Context{Path: "inner"}, nil)
	if err == nil || !strings.Contains(err.Error(), "inner") {
		t.Fatalf("expected nil payload error naming path, got %v", err)
	}
}

func TestDecoderHooks(t *testing.T) {
	payload := map[string]any{"count": 1}
	decoder := NewDecoder(
		WithPreHook[counter](func(ctx Context, in map[string]any) (map[string]any, error) {
			in["label"] = ctx.Type
			return in, nil
		}),
		WithPostHook(func(_ Context, c *counter) error {
			c.Count *= 10
			return nil
		}),
	)

	decoded, err := decoder.Decode(Context{Type: "Counter"}, payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Count != 10 || decoded.Label != "Counter" {
		t.Fatalf("unexpected result %+v", decoded)
	}
	if _, ok := payload["label"]; ok {
		t.Fatalf("pre-hook mutated caller payload")
	}
}

func TestDecoderHookErrors(t *testing.T) {
	errPre := errors.New("pre failed")
	errPost := errors.New("post failed")

	_, err := NewDecoder(WithPreHook[counter](func(Context, map[string]any) (map[string]any, error) {
		return nil, errPre
	})).Decode(Context{}, map[string]any{})
	if !errors.Is(err, errPre) {
		t.Fatalf("expected pre-hook error, got %v", err)
	}

	_, err = NewDecoder(WithPostHook(func(Context, *counter) error {
		return errPost
	})).Decode(Context{}, map[string]any{})
	if !errors.Is(err, errPost) {
		t.Fatalf("expected post-hook error, got %v", err)
	}
}

func TestDecoderErrorUnused(t *testing.T) {
	payload := map[string]any{"count": 1, "extra": true}

	if _, err := NewDecoder[counter]().Decode(Context{}, payload); err != nil {
		t.Fatalf("unexpected error without strict decoding: %v", err)
	}
	if _, err := NewDecoder(WithErrorUnused[counter]()).Decode(Context{}, payload); err == nil {
		t.Fatalf("expected unused key error")
	}
}

func TestDecoderWeaklyTypedInput(t *testing.T) {
	payload := map[string]any{"count": "7"}

	if _, err := NewDecoder[counter]().Decode(Context{}, payload); err == nil {
		t.Fatalf("expected strict decoding to reject string count")
	}
	decoded, err := NewDecoder(WithWeaklyTypedInput[counter]()).Decode(Context{}, payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Count != 7 {
		t.Fatalf("expected 7, got %d", decoded.Count)
	}
}

func TestDecoderConfig(t *testing.T) {
	type tagged struct {
		Count int `state:"n"`
	}
	decoder := NewDecoder(WithDecoderConfig[tagged](func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = "state"
	}))

	decoded, err := decoder.Decode(Context{}, map[string]any{"n": 3})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Count != 3 {
		t.Fatalf("expected 3, got %d", decoded.Count)
	}
}

func TestDecoderCustom(t *testing.T) {
	decoder := NewDecoder(WithCustomDecoder(func(_ Context, in map[string]any) (counter, error) {
		return counter{Label: "custom", Count: len(in)}, nil
	}))

	decoded, err := decoder.Decode(Context{}, map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Label != "custom" || decoded.Count != 2 {
		t.Fatalf("unexpected result %+v", decoded)
	}
}
