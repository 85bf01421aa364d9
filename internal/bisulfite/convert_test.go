package bisulfite

import "testing"

func TestConvertCT(t *testing.T) {
	got := string(ConvertCT([]byte("AAACCGGTTN")))
	want := "AAATTGGTTT"
	if got != want {
		t.Errorf("ConvertCT = %q, want %q", got, want)
	}
}

func TestConvertGA(t *testing.T) {
	got := string(ConvertGA([]byte("AAACCGGTTN")))
	want := "AAACCAATTA"
	if got != want {
		t.Errorf("ConvertGA = %q, want %q", got, want)
	}
}

func TestConventionString(t *testing.T) {
	if CT.String() != "C->T" || GA.String() != "G->A" {
		t.Errorf("unexpected Convention.String() values")
	}
}
