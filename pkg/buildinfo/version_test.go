package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"
	got := Get()
	if got.Version != "v1.2.3" || got.Commit != "abc123" || got.Date != "2026-01-02" {
		t.Errorf("Get() = %+v", got)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "v1.2.3") || !strings.Contains(tmpl, "{{.Name}}") {
		t.Errorf("Template() = %q", tmpl)
	}
}
