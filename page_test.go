package convopdf

import (
	"math"
	"testing"

	"github.com/porticus-lab/convo-pdf/internal/layout"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMmToInches(t *testing.T) {
	tests := []struct {
		mm   float64
		want float64
	}{
		{25.4, 1.0},
		{0, 0},
		{210, 8.2677},
		{297, 11.6929},
	}
	for _, tt := range tests {
		got := mmToInches(tt.mm)
		if !almostEqual(got, tt.want, 0.001) {
			t.Errorf("mmToInches(%v) = %v, want ~%v", tt.mm, got, tt.want)
		}
	}
}

func TestDefaultPageConfig(t *testing.T) {
	d := DefaultPageConfig()
	if d.Size != A4 {
		t.Errorf("default size = %v, want A4", d.Size)
	}
	if d.Orientation != Portrait {
		t.Errorf("default orientation = %v, want Portrait", d.Orientation)
	}
	if d.Margin != 20 {
		t.Errorf("default margin = %v, want 20", d.Margin)
	}
	if d.LineHeight != 7 {
		t.Errorf("default line height = %v, want 7", d.LineHeight)
	}
	if d.FontSize != 11 {
		t.Errorf("default font size = %v, want 11", d.FontSize)
	}
	if d.FontFamily != "helvetica" {
		t.Errorf("default font = %q, want helvetica", d.FontFamily)
	}
}

func TestPageConfigResolved_Nil(t *testing.T) {
	var pc *PageConfig
	r := pc.resolved()
	d := DefaultPageConfig()
	if r != d {
		t.Errorf("nil resolved = %+v, want %+v", r, d)
	}
}

func TestPageConfigResolved_Sources(t *testing.T) {
	var pc *PageConfig
	r := pc.resolvedFor(Sources)
	if r.Margin != 15 || r.FontSize != 12 {
		t.Errorf("sources resolved to margin %v size %v, want 15 and 12", r.Margin, r.FontSize)
	}

	r = (&PageConfig{Margin: 25}).resolvedFor(Sources)
	if r.Margin != 25 || r.FontSize != 12 {
		t.Errorf("explicit margin lost: %+v", r)
	}
}

func TestPageConfigResolved_ZeroValues(t *testing.T) {
	pc := &PageConfig{}
	r := pc.resolved()
	if r != DefaultPageConfig() {
		t.Errorf("zero config resolved to %+v", r)
	}
}

func TestPageConfigResolved_PreservesExplicit(t *testing.T) {
	pc := &PageConfig{
		Size:        Letter,
		Orientation: Landscape,
		Margin:      10,
		LineHeight:  5,
		FontSize:    9,
		FontFamily:  "Courier",
	}
	r := pc.resolved()
	if r.Size != Letter {
		t.Errorf("size = %v, want Letter", r.Size)
	}
	if r.Orientation != Landscape {
		t.Errorf("orientation = %v, want Landscape", r.Orientation)
	}
	if r.Margin != 10 || r.LineHeight != 5 || r.FontSize != 9 {
		t.Errorf("explicit values lost: %+v", r)
	}
	if r.FontFamily != "courier" {
		t.Errorf("font family = %q, want courier", r.FontFamily)
	}
}

func TestPaperSize(t *testing.T) {
	portrait := (&PageConfig{Size: A4}).paperSize()
	if portrait != A4 {
		t.Errorf("portrait = %v, want %v", portrait, A4)
	}
	landscape := (&PageConfig{Size: A4, Orientation: Landscape}).paperSize()
	if landscape.Width != 297 || landscape.Height != 210 {
		t.Errorf("landscape = %v, want 297x210", landscape)
	}
}

func TestLayoutPage(t *testing.T) {
	pg := (&PageConfig{Orientation: Landscape}).layoutPage()
	want := layout.Page{Width: 297, Height: 210, Margin: 20, LineHeight: 7, FontSize: 11}
	if pg != want {
		t.Errorf("layoutPage = %+v, want %+v", pg, want)
	}
	if !almostEqual(pg.UsableWidth(), 257, 1e-9) {
		t.Errorf("usable width = %v, want 257", pg.UsableWidth())
	}
}

func TestMeasurer(t *testing.T) {
	if _, ok := (&PageConfig{}).measurer().(layout.Helvetica); !ok {
		t.Error("default measurer is not Helvetica")
	}
	m, ok := (&PageConfig{FontFamily: "courier", FontSize: 10}).measurer().(layout.Monospace)
	if !ok {
		t.Fatal("courier measurer is not Monospace")
	}
	if !almostEqual(m.CharWidth, 6*layout.PointsToMM, 1e-9) {
		t.Errorf("char width = %v", m.CharWidth)
	}
}
