package wc

import "testing"

func TestCheckRelpath(t *testing.T) {
	valid := []string{"", "a", "a/b", "a/b/c", "with space/x", "uni/日本語"}
	for _, p := range valid {
		if err := CheckRelpath(p); err != nil {
			t.Errorf("CheckRelpath(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"/a", "a/", "/", "a//b", "a/./b", "../a", "a/.."}
	for _, p := range invalid {
		if err := CheckRelpath(p); err == nil {
			t.Errorf("CheckRelpath(%q) = nil, want error", p)
		}
	}
}

func TestPathDepth(t *testing.T) {
	cases := map[string]int64{
		"":      0,
		"a":     1,
		"a/b":   2,
		"a/b/c": 3,
	}
	for p, want := range cases {
		if got := PathDepth(p); got != want {
			t.Errorf("PathDepth(%q) = %d, want %d", p, got, want)
		}
	}
}

func TestParentRelpath(t *testing.T) {
	cases := map[string]string{
		"a":     "",
		"a/b":   "a",
		"a/b/c": "a/b",
	}
	for p, want := range cases {
		if got := ParentRelpath(p); got != want {
			t.Errorf("ParentRelpath(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestRelpathSuffix(t *testing.T) {
	t.Run("inside ancestor", func(t *testing.T) {
		got, ok := RelpathSuffix("a/b", "a/b/c/d")
		if !ok || got != "c/d" {
			t.Errorf("RelpathSuffix(a/b, a/b/c/d) = %q, %v", got, ok)
		}
	})

	t.Run("equal paths", func(t *testing.T) {
		got, ok := RelpathSuffix("a/b", "a/b")
		if !ok || got != "" {
			t.Errorf("RelpathSuffix(a/b, a/b) = %q, %v", got, ok)
		}
	})

	t.Run("root contains everything", func(t *testing.T) {
		got, ok := RelpathSuffix("", "x/y")
		if !ok || got != "x/y" {
			t.Errorf("RelpathSuffix(\"\", x/y) = %q, %v", got, ok)
		}
	})

	t.Run("sibling is outside", func(t *testing.T) {
		if _, ok := RelpathSuffix("a/b", "a/bc"); ok {
			t.Error("RelpathSuffix(a/b, a/bc) reported containment")
		}
	})
}

func TestLikeSubtreePattern(t *testing.T) {
	cases := map[string]string{
		"a":      "a/%",
		"a/b":    "a/b/%",
		"":       "%",
		"50%":    "50#%/%",
		"a_b":    "a#_b/%",
		"esc#ed": "esc##ed/%",
	}
	for p, want := range cases {
		if got := LikeSubtreePattern(p); got != want {
			t.Errorf("LikeSubtreePattern(%q) = %q, want %q", p, got, want)
		}
	}
}
