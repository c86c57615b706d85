package outcome

import "testing"

func TestResolve(t *testing.T) {
	const rejection = 2

	cases := []struct {
		name       string
		prediction int
		label      int
		want       Outcome
	}{
		{"exact match", 0, 0, CorrectAndPredicted},
		{"wrong class", 0, 1, IncorrectAndPredicted},
		{"rejected with rejection label", rejection, rejection, CorrectAndRejected},
		{"rejected with real label", rejection, 1, IncorrectAndRejected},
		{"predicted rejection label", 1, rejection, IncorrectAndPredicted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.prediction, tc.label, rejection)
			if got != tc.want {
				t.Errorf("Resolve(%d, %d, %d) = %s, want %s", tc.prediction, tc.label, rejection, got, tc.want)
			}
		})
	}
}

func TestAllIsStable(t *testing.T) {
	if len(All()) != 4 {
		t.Fatalf("Expected 4 outcomes, got %d", len(All()))
	}
	seen := make(map[Outcome]bool)
	for _, o := range All() {
		if seen[o] {
			t.Errorf("Duplicate outcome %s", o)
		}
		seen[o] = true
	}
}
