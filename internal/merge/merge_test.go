package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    map[string]any
		overlay map[string]any
		want    map[string]any
	}{
		{
			name:    "EmptyOverlayKeepsBase",
			base:    map[string]any{"a": 1, "b": "text"},
			overlay: map[string]any{},
			want:    map[string]any{"a": 1, "b": "text"},
		},
		{
			name:    "EmptyBaseTakesOverlay",
			base:    map[string]any{},
			overlay: map[string]any{"a": 1, "b": "text"},
			want:    map[string]any{"a": 1, "b": "text"},
		},
		{
			name:    "OverlayWinsOnScalarConflict",
			base:    map[string]any{"a": 1, "b": 2},
			overlay: map[string]any{"b": 3},
			want:    map[string]any{"a": 1, "b": 3},
		},
		{
			name:    "NestedMappingsUnion",
			base:    map[string]any{"a": map[string]any{"x": 1}},
			overlay: map[string]any{"a": map[string]any{"y": 2}},
			want:    map[string]any{"a": map[string]any{"x": 1, "y": 2}},
		},
		{
			name: "DeeplyNestedConflict",
			base: map[string]any{
				"server": map[string]any{"tls": map[string]any{"enabled": false, "cert": "a.pem"}},
			},
			overlay: map[string]any{
				"server": map[string]any{"tls": map[string]any{"enabled": true}},
			},
			want: map[string]any{
				"server": map[string]any{"tls": map[string]any{"enabled": true, "cert": "a.pem"}},
			},
		},
		{
			name:    "SequencesAreReplacedNotConcatenated",
			base:    map[string]any{"a": []any{1, 2}},
			overlay: map[string]any{"a": []any{3}},
			want:    map[string]any{"a": []any{3}},
		},
		{
			name:    "MappingReplacesScalar",
			base:    map[string]any{"a": 1},
			overlay: map[string]any{"a": map[string]any{"x": 1}},
			want:    map[string]any{"a": map[string]any{"x": 1}},
		},
		{
			name:    "ScalarReplacesMapping",
			base:    map[string]any{"a": map[string]any{"x": 1}},
			overlay: map[string]any{"a": 1},
			want:    map[string]any{"a": 1},
		},
		{
			name:    "NullOverlayValueReplaces",
			base:    map[string]any{"a": 1},
			overlay: map[string]any{"a": nil},
			want:    map[string]any{"a": nil},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Merge(tc.base, tc.overlay)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected merge result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	base := map[string]any{"a": map[string]any{"x": 1}, "b": []any{1, 2}}
	overlay := map[string]any{"a": map[string]any{"y": 2}, "b": []any{3}}

	once := Merge(base, overlay)
	twice := Merge(once, overlay)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("re-applying the same overlay changed the result (-once +twice):\n%s", diff)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	base := map[string]any{"a": map[string]any{"x": 1}, "list": []any{1, 2}}
	overlay := map[string]any{"a": map[string]any{"x": 2}, "list": []any{3}}
	baseCopy := Clone(base).(map[string]any)
	overlayCopy := Clone(overlay).(map[string]any)

	got := Merge(base, overlay)

	if diff := cmp.Diff(baseCopy, base); diff != "" {
		t.Fatalf("base was mutated:\n%s", diff)
	}
	if diff := cmp.Diff(overlayCopy, overlay); diff != "" {
		t.Fatalf("overlay was mutated:\n%s", diff)
	}

	// Mutating the result must not leak back into the inputs.
	got["a"].(map[string]any)["x"] = 99
	got["list"].([]any)[0] = 99
	if base["a"].(map[string]any)["x"] != 1 {
		t.Fatalf("result shares nested mapping with base")
	}
	if overlay["list"].([]any)[0] != 3 {
		t.Fatalf("result shares sequence with overlay")
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	original := map[string]any{
		"scalar": "text",
		"nested": map[string]any{"n": 1},
		"list":   []any{1, map[string]any{"inner": true}},
	}

	cloned := Clone(original).(map[string]any)
	if diff := cmp.Diff(original, cloned); diff != "" {
		t.Fatalf("clone differs from original:\n%s", diff)
	}

	cloned["nested"].(map[string]any)["n"] = 2
	cloned["list"].([]any)[1].(map[string]any)["inner"] = false
	if original["nested"].(map[string]any)["n"] != 1 {
		t.Fatalf("clone shares nested mapping with original")
	}
	if original["list"].([]any)[1].(map[string]any)["inner"] != true {
		t.Fatalf("clone shares sequence element with original")
	}
}
