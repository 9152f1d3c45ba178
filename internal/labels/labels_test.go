package labels_test

import (
	"testing"

	"github.com/sgaunet/release-toolbox/internal/labels"
)

func TestExtractTypes(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   []string
	}{
		{"fix", []string{"module: core", "type: fix"}, []string{"type: fix"}},
		{"developer experience", []string{"target: developer-experience"}, []string{"target: developer-experience"}},
		{"several", []string{"target: developer-experience", "type: internal"}, []string{"target: developer-experience", "type: internal"}},
		{"no type", []string{"module: admin", "release: v0.27"}, nil},
		{"empty", nil, nil},
		{"prefix needs space", []string{"type:fix"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels.ExtractTypes(tt.labels)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractTypes(%v) = %v, want %v", tt.labels, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ExtractTypes(%v)[%d] = %q, want %q", tt.labels, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractModules(t *testing.T) {
	got := labels.ExtractModules([]string{"module: admin", "type: fix", "module: core", "module: "})
	want := []string{"module: admin", "module: core"}

	if len(got) != len(want) {
		t.Fatalf("ExtractModules() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExtractModules()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestModuleName(t *testing.T) {
	if got := labels.ModuleName("module: proposals"); got != "proposals" {
		t.Errorf("ModuleName() = %q, want %q", got, "proposals")
	}
	if got := labels.ModuleName("type: fix"); got != "" {
		t.Errorf("ModuleName() = %q, want empty", got)
	}
}

func TestReleaseVersion(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		wantOK bool
	}{
		{"release: v0.27", "0.27", true},
		{"release: v1.10", "1.10", true},
		{"release: 0.27", "", false},
		{"release: vnext", "", false},
		{"type: fix", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := labels.ReleaseVersion(tt.label)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ReleaseVersion(%q) = (%q, %v), want (%q, %v)", tt.label, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSorted(t *testing.T) {
	got := labels.Sorted([]string{"type: fix", " module: core ", "", "module: admin"})
	want := []string{"module: admin", "module: core", "type: fix"}

	if len(got) != len(want) {
		t.Fatalf("Sorted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	names := []string{"no-backport", "type: fix"}
	if !labels.Contains(names, labels.NoBackport) {
		t.Error("expected no-backport to be found")
	}
	if labels.Contains(names, "Type: Fix") {
		t.Error("match must be case-sensitive")
	}
}
