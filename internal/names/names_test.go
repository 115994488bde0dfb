package names

import (
	"strings"
	"testing"
)

var testDistricts = []string{
	"Birmingham", "Coventry", "Dudley", "Sandwell",
	"Solihull", "Walsall", "Wolverhampton",
}

func testRenames() map[string]string {
	return map[string]string{
		"Bilston East":            "Bilston South",
		"Tyburn":                  "Erdington",
		"St. Peter's":             "St Peters",
		"Moseley and Kings Heath": "Moseley",
	}
}

func TestNormalize_StripWardSuffix(t *testing.T) {
	n := New(testDistricts, nil, nil)

	if got := n.Normalize("Aston Ward"); got != "Aston" {
		t.Errorf("Normalize = %q, want Aston", got)
	}
}

func TestNormalize_StripDistrictParenthetical(t *testing.T) {
	n := New(testDistricts, nil, nil)

	tests := map[string]string{
		"Aston (Birmingham)":            "Aston",
		"Bilston North (Wolverhampton)": "Bilston North",
		// Suffixes stacked in either order collapse in one call.
		"Aston Ward (Birmingham)": "Aston",
		"Aston (Birmingham) Ward": "Aston",
		// Parenthetical that is not a district stays.
		"Sutton Four Oaks (North)": "Sutton Four Oaks (North)",
	}

	for in, want := range tests {
		if got := n.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_Apostrophes(t *testing.T) {
	n := New(testDistricts, nil, nil)

	variants := []string{"King's Norton", "Kings Norton", "King’s Norton"}
	for _, v := range variants {
		if got := n.Normalize(v); got != "Kings Norton" {
			t.Errorf("Normalize(%q) = %q, want Kings Norton", v, got)
		}
	}
}

func TestNormalize_Renames(t *testing.T) {
	n := New(testDistricts, testRenames(), nil)

	if got := n.Normalize("Bilston East"); got != "Bilston South" {
		t.Errorf("Normalize = %q, want Bilston South", got)
	}

	// Rename keys are matched after string rules, so source variants with
	// suffixes still hit the table.
	if got := n.Normalize("Tyburn Ward"); got != "Erdington" {
		t.Errorf("Normalize = %q, want Erdington", got)
	}

	// Stacked suffixes must also collapse before the table lookup.
	if got := n.Normalize("Tyburn Ward (Birmingham)"); got != "Erdington" {
		t.Errorf("Normalize = %q, want Erdington", got)
	}

	if got := n.Normalize("St. Peter's"); got != "St Peters" {
		t.Errorf("Normalize = %q, want St Peters", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(testDistricts, testRenames(), nil)

	inputs := []string{
		"Aston (Birmingham)",
		"Aston Ward",
		"Aston Ward (Birmingham)",
		"Aston (Birmingham) Ward",
		"St. Peter's",
		"Bilston East",
		"Moseley and Kings Heath",
		"  Castle   Vale ",
		"King's Norton South",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)

		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_ChainedRenames(t *testing.T) {
	n := New(testDistricts, map[string]string{
		"Old Name":    "Middle Name",
		"Middle Name": "Final Name",
	}, nil)

	if got := n.Normalize("Old Name"); got != "Final Name" {
		t.Errorf("Normalize = %q, want Final Name", got)
	}

	if got := n.Normalize("Middle Name"); got != "Final Name" {
		t.Errorf("Normalize = %q, want Final Name", got)
	}
}

func TestNormalize_Convergence(t *testing.T) {
	n := New(testDistricts, testRenames(), nil)

	// The same real ward under three source spellings.
	incident := n.Normalize("St. Peter's Ward")
	census := n.Normalize("St Peters (Wolverhampton)")
	boundary := n.Normalize("St Peter's")

	if incident != census || census != boundary {
		t.Errorf("Sources did not converge: %q / %q / %q", incident, census, boundary)
	}
}

func TestDistrictFor(t *testing.T) {
	n := New(testDistricts, nil, map[string]string{"Tipton Green": "Sandwell"})

	district, ok := n.DistrictFor(n.Normalize("Tipton Green"))
	if !ok || district != "Sandwell" {
		t.Errorf("DistrictFor = %q, %v; want Sandwell, true", district, ok)
	}

	if _, ok := n.DistrictFor("Aston"); ok {
		t.Error("DistrictFor returned an override for an unlisted ward")
	}
}

func TestDivergence(t *testing.T) {
	warnings := Divergence(map[string][]string{
		"incidents": {"Aston", "Moseley"},
		"geometry":  {"Aston"},
		"census":    {"Aston", "Moseley"},
	})

	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(warnings), warnings)
	}

	for _, w := range warnings {
		if !strings.Contains(w, "Moseley") || !strings.Contains(w, "not in geometry") {
			t.Errorf("Unexpected warning: %s", w)
		}
	}
}

func TestDivergence_Converged(t *testing.T) {
	warnings := Divergence(map[string][]string{
		"incidents": {"Aston"},
		"geometry":  {"Aston"},
	})

	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}
