package risk

import "testing"

func TestBandFor(t *testing.T) {
	tests := []struct {
		p    float64
		want Band
	}{
		{0, BandLow},
		{0.1, BandLow},
		{0.2499, BandLow},
		{0.25, BandModerate},
		{0.42, BandModerate},
		{0.4999, BandModerate},
		{0.50, BandHigh},
		{0.7499, BandHigh},
		{0.75, BandVeryHigh},
		{0.9, BandVeryHigh},
		{1, BandVeryHigh},
	}

	for _, tt := range tests {
		if got := BandFor(tt.p); got != tt.want {
			t.Errorf("BandFor(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestLabelString(t *testing.T) {
	if got := LabelNotAtRisk.String(); got != "Not at Risk (0)" {
		t.Errorf("LabelNotAtRisk = %q", got)
	}
	if got := LabelAtRisk.String(); got != "At Risk (1)" {
		t.Errorf("LabelAtRisk = %q", got)
	}
}
