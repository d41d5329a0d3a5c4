package assistant

import "testing"

func TestDetectTaskType(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Kan du svare på denne mail fra en kunde?", "kundeservice"},
		{"Lav et facebook opslag om den nye menu", "marketing"},
		{"Hvornår er næste event booking?", "planlægning"},
		{"Hvad siger regnskabet for Q2?", "økonomi"},
		{"Skal vi opdatere menukortet på vognen?", "drift"},
		{"Kan vi forbedre vores seo?", "seo"},
		{"Hej, hvordan går det?", ""},
	}
	for _, c := range cases {
		if got := DetectTaskType(c.input); got != c.want {
			t.Errorf("DetectTaskType(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestDetectTaskTypeOrdering(t *testing.T) {
	// "kunde" and "faktura" both match; kundeservice is evaluated first.
	got := DetectTaskType("Kunde spørger om faktura")
	if got != "kundeservice" {
		t.Errorf("expected kundeservice, got %q", got)
	}
}

func TestDetectTaskTypeCaseInsensitive(t *testing.T) {
	if got := DetectTaskType("FAKTURA til Netto"); got != "økonomi" {
		t.Errorf("expected økonomi, got %q", got)
	}
}
