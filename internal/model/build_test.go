package model

import "testing"

func TestBuildResultReproduces(t *testing.T) {
	cases := []struct {
		name        string
		result      BuildResult
		reproduces  bool
		wantVerdict string
	}{
		{"issue present", BuildResult{ReproducesIssue: true}, true, "yes"},
		{"issue gone", BuildResult{}, false, "no"},
		{"no verify", BuildResult{NoVerify: true}, true, "yes (no-verify)"},
		{"no verify wins over raw verdict", BuildResult{ReproducesIssue: true, NoVerify: true}, true, "yes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Reproduces(); got != tc.reproduces {
				t.Fatalf("Reproduces() = %v, want %v", got, tc.reproduces)
			}

			if got := tc.result.Verdict(); got != tc.wantVerdict {
				t.Fatalf("Verdict() = %q, want %q", got, tc.wantVerdict)
			}
		})
	}
}
