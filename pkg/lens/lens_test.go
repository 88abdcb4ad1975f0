package lens

import (
	"reflect"
	"testing"
)

func TestViewAddressesNestedValues(t *testing.T) {
	root := map[string]any{
		"box": map[string]any{
			"items": []any{"a", map[string]any{"name": "b"}},
		},
	}

	cases := []struct {
		name string
		path Path
		want any
	}{
		{name: "root", path: nil, want: root},
		{name: "field", path: Path{"box", "items", 0}, want: "a"},
		{name: "nested field in slice", path: Path{"box", "items", 1, "name"}, want: "b"},
		{name: "missing key", path: Path{"box", "missing", "deeper"}, want: nil},
		{name: "index out of range", path: Path{"box", "items", 5}, want: nil},
		{name: "negative index", path: Path{"box", "items", -1}, want: nil},
		{name: "key into scalar", path: Path{"box", "items", 0, "x"}, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := View(tc.path.Lens(), root)
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("view %q: want %#v, got %#v", tc.path, tc.want, got)
			}
		})
	}
}

func TestSetDoesNotMutateTarget(t *testing.T) {
	inner := map[string]any{"count": 1}
	sibling := map[string]any{"label": "keep"}
	root := map[string]any{"inner": inner, "sibling": sibling}

	next := Set(PathLens("inner", "count"), 2, root).(map[string]any)

	if inner["count"] != 1 {
		t.Fatalf("original inner mutated: %#v", inner)
	}
	if root["inner"].(map[string]any)["count"] != 1 {
		t.Fatalf("original root mutated: %#v", root)
	}
	if got := next["inner"].(map[string]any)["count"]; got != 2 {
		t.Fatalf("expected updated count 2, got %#v", got)
	}
	if reflect.ValueOf(next["sibling"]).Pointer() != reflect.ValueOf(sibling).Pointer() {
		t.Fatalf("expected untouched sibling to be shared")
	}
}

func TestSetCreatesMissingContainers(t *testing.T) {
	got := Set(PathLens("a", 2, "b"), "x", nil)
	want := map[string]any{
		"a": []any{nil, nil, map[string]any{"b": "x"}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestSetReplacesScalarWithContainer(t *testing.T) {
	got := Set(PathLens("a", "b"), 1, map[string]any{"a": 5})
	want := map[string]any{"a": map[string]any{"b": 1}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}

func TestSetRootPathReplacesValue(t *testing.T) {
	if got := Set(Path{}.Lens(), 6, 5); got != 6 {
		t.Fatalf("expected root set to replace value, got %#v", got)
	}
	if got := Set(nil, 6, 5); got != 6 {
		t.Fatalf("expected nil lens set to replace value, got %#v", got)
	}
}

func TestSetNegativeIndexIsIgnored(t *testing.T) {
	target := []any{1, 2}
	got := Set(Index(-1), 9, target)
	if !reflect.DeepEqual(target, got) {
		t.Fatalf("expected target unchanged, got %#v", got)
	}
}

func TestOverAppliesFunction(t *testing.T) {
	root := map[string]any{"n": 2}
	got := Over(Key("n"), func(v any) any { return v.(int) * 10 }, root)
	if got.(map[string]any)["n"] != 20 {
		t.Fatalf("expected 20, got %#v", got)
	}
	if root["n"] != 2 {
		t.Fatalf("original mutated")
	}
}

func TestPathAppendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = "root"
	a := base.Append("a")
	b := base.Append("b")
	if a.String() != "root.a" || b.String() != "root.b" {
		t.Fatalf("append aliased backing array: %q %q", a, b)
	}
	if len(base) != 1 {
		t.Fatalf("base path modified: %v", base)
	}
}

func TestPathStringAndEqual(t *testing.T) {
	p := Path{"items", 3, "name"}
	if p.String() != "items.3.name" {
		t.Fatalf("unexpected path string %q", p.String())
	}
	if !p.Equal(Path{"items", 3, "name"}) {
		t.Fatalf("expected equal paths")
	}
	if p.Equal(Path{"items", "3", "name"}) {
		t.Fatalf("int and string keys must differ")
	}
	if (Path{}).String() != "" {
		t.Fatalf("root path should render empty")
	}
}
