package style

import (
	"testing"

	"github.com/atlasfield/mapview/pkg/site"
)

func ndvi(v float64) *float64 { return &v }

func TestClassifyForest(t *testing.T) {
	tests := []struct {
		risk string
		want Color
	}{
		{"LOW", Green},
		{"low", Green},
		{"MODERATE", Amber},
		{"MEDIUM", Amber},
		{"moderate", Amber},
		{"HIGH", Red},
		{"high", Red},
		{"CRITICAL", Red},
		{"", Green},        // no analysis yet
		{"unknown", Green}, // unrecognized defaults to green
	}
	for _, tt := range tests {
		got := Classify(site.TypeForest, site.Metrics{FireRisk: tt.risk})
		if got != tt.want {
			t.Errorf("Classify(FOREST, %q) = %s, want %s", tt.risk, got, tt.want)
		}
	}
}

func TestClassifyField(t *testing.T) {
	tests := []struct {
		name string
		m    site.Metrics
		want Color
	}{
		{"healthy", site.Metrics{NDVI: ndvi(0.6)}, Green},
		{"very healthy", site.Metrics{NDVI: ndvi(0.95)}, Green},
		{"stressed boundary", site.Metrics{NDVI: ndvi(0.4)}, Amber},
		{"stressed", site.Metrics{NDVI: ndvi(0.59)}, Amber},
		{"critical", site.Metrics{NDVI: ndvi(0.39)}, Red},
		{"negative", site.Metrics{NDVI: ndvi(-0.2)}, Red},
		{"no analysis", site.Metrics{}, Gray},
	}
	for _, tt := range tests {
		got := Classify(site.TypeField, tt.m)
		if got != tt.want {
			t.Errorf("%s: Classify(FIELD, %+v) = %s, want %s", tt.name, tt.m, got, tt.want)
		}
	}
}

func TestClassifyUnknownTypeIsGray(t *testing.T) {
	// Forward compatibility: future site types render neutral even when
	// metrics are present.
	m := site.Metrics{NDVI: ndvi(0.9), FireRisk: "HIGH"}
	if got := Classify(site.Type("ORCHARD"), m); got != Gray {
		t.Errorf("Classify(ORCHARD, metrics) = %s, want %s", got, Gray)
	}
	if got := Classify(site.Type(""), site.Metrics{}); got != Gray {
		t.Errorf("Classify(\"\", {}) = %s, want %s", got, Gray)
	}
}

func TestClassifyTotality(t *testing.T) {
	types := []site.Type{site.TypeField, site.TypeForest, "ORCHARD", ""}
	metrics := []site.Metrics{
		{},
		{NDVI: ndvi(0.5)},
		{FireRisk: "CRITICAL"},
		{NDVI: ndvi(1.0), FireRisk: "garbage"},
	}
	valid := map[Color]bool{Green: true, Amber: true, Red: true, Gray: true}

	for _, typ := range types {
		for _, m := range metrics {
			got := Classify(typ, m)
			if !valid[got] {
				t.Errorf("Classify(%q, %+v) = %q, not a palette color", typ, m, got)
			}
		}
	}
}

func TestColorHex(t *testing.T) {
	if Green.Hex() == "" || Amber.Hex() == "" || Red.Hex() == "" || Gray.Hex() == "" {
		t.Fatal("every palette color must map to a CSS hex value")
	}
	if got := Color("bogus").Hex(); got != Gray.Hex() {
		t.Errorf("unknown color hex = %q, want gray %q", got, Gray.Hex())
	}
}
