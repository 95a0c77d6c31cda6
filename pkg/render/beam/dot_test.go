package beam

import (
	"strings"
	"testing"

	"github.com/matzehuels/cogbalance/pkg/cog"
)

func sample() cog.Result {
	return cog.Compute([]cog.Row{
		cog.NewRow("Drone", 26, 0.09),
		cog.NewRow("Battery", 4.7, -0.04),
		{Component: "Strap", Weight: cog.Value(1)},
		cog.NewRow("Camera", 5, 1.5),
	})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{Precision: 2, Unit: "m"})

	if !IsDOT(dot) {
		t.Fatalf("unexpected header: %q", dot[:20])
	}
	for _, want := range []string{
		"layout=neato;",
		`"beam_l" [shape=point, width=0.05, pos="-4.000,0!"]`,
		`"beam_r" [shape=point, width=0.05, pos="4.000,0!"]`,
		`"pivot"`,
		`label="CoG 0.27 m"`,
		`label="Camera\nw 5.00 @ 1.50 m"`,
		`pos="4.000,`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if strings.Contains(dot, "Strap") {
		t.Error("incomplete row should not be drawn")
	}
	if got := strings.Count(dot, "_at\" [shape=point"); got != 3 {
		t.Errorf("anchor count = %d, want 3", got)
	}
}

func TestToDOTScaledUnits(t *testing.T) {
	res := cog.Compute([]cog.Row{
		cog.NewRow("Drone", 26, 0.09),
		cog.NewRow("Battery", 4.7, -0.04),
		cog.NewRow("Camera", 5, 1.5),
	}, cog.WithScale(1000))
	dot := ToDOT(res, Options{Precision: 2, Unit: "mm"})

	for _, want := range []string{
		`label="CoG 270.36 mm"`,
		`label="Camera\nw 5.00 @ 1500.00 mm"`,
		`label="Battery\nw 4.70 @ -40.00 mm"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if strings.Contains(dot, "@ 1.50 mm") {
		t.Error("arm label must be scaled like the CoG")
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(cog.Compute(nil), Options{Precision: 2})
	if strings.Contains(dot, "row0") {
		t.Error("empty result should not have row nodes")
	}
	if !strings.Contains(dot, `label="CoG 0.00"`) {
		t.Error("CoG marker should show zero")
	}
	if !strings.Contains(dot, `pos="0.000,-0.9!"`) {
		t.Error("CoG marker should sit on the pivot")
	}
}

func TestToDOTHalfWidth(t *testing.T) {
	res := cog.Compute([]cog.Row{cog.NewRow("a", 1, -2), cog.NewRow("b", 1, 1)})
	dot := ToDOT(res, Options{HalfWidth: 2})
	if !strings.Contains(dot, `pos="-2.000,0!"`) {
		t.Error("largest arm should reach the beam end")
	}
	if !strings.Contains(dot, `pos="1.000,0!"`) {
		t.Error("arm 1 of span 2 should sit half way")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %q", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox should be unchanged, got %q", got)
	}
}
