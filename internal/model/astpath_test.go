package model

import "testing"

func TestAstPathCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b AstPath
		want int
	}{
		{"equal", AstPath{"m", "f"}, AstPath{"m", "f"}, 0},
		{"prefix sorts first", AstPath{"m"}, AstPath{"m", "f"}, -1},
		{"segment order", AstPath{"a", "z"}, AstPath{"b", "a"}, -1},
		{"later segment decides", AstPath{"m", "a"}, AstPath{"m", "b"}, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Compare(tc.b)
			if sign(got) != tc.want {
				t.Fatalf("Compare(%v, %v) = %d, want sign %d", tc.a, tc.b, got, tc.want)
			}

			if sign(tc.b.Compare(tc.a)) != -tc.want {
				t.Fatalf("Compare is not antisymmetric for %v / %v", tc.a, tc.b)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestAstPathHasPrefix(t *testing.T) {
	p := AstPath{"outer", "inner", "field"}

	if !p.HasPrefix(AstPath{"outer"}) || !p.HasPrefix(AstPath{"outer", "inner"}) || !p.HasPrefix(p) {
		t.Fatal("prefix not recognized")
	}

	if p.HasPrefix(AstPath{"inner"}) || p.HasPrefix(AstPath{"outer", "field"}) {
		t.Fatal("non-prefix accepted")
	}

	if p.HasPrefix(AstPath{"outer", "inner", "field", "more"}) {
		t.Fatal("longer path accepted as prefix")
	}
}

func TestAstPathCloneIsIndependent(t *testing.T) {
	p := AstPath{"a", "b"}
	c := p.Clone()
	c[0] = "changed"

	if p[0] != "a" {
		t.Fatal("clone shares backing array")
	}
}

func TestAstPathKeyDistinguishesSegmentation(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	if (AstPath{"ab", "c"}).Key() == (AstPath{"a", "bc"}).Key() {
		t.Fatal("key collision across different segmentations")
	}
}

func TestAstPathString(t *testing.T) {
	if got := (AstPath{"m", "f", SegmentVisibility}).String(); got != "m::f::{{vis}}" {
		t.Fatalf("String() = %q", got)
	}
}
