package detection

import (
	"image"
	"math"
	"testing"
)

func TestMutualOverlap(t *testing.T) {
	tests := []struct {
		name   string
		a, b   image.Rectangle
		expect float64
	}{
		{"identical", image.Rect(0, 0, 10, 10), image.Rect(0, 0, 10, 10), 1.0},
		{"disjoint", image.Rect(0, 0, 10, 10), image.Rect(20, 20, 30, 30), 0},
		{"touching edges", image.Rect(0, 0, 10, 10), image.Rect(10, 0, 20, 10), 0},
		{"half shifted", image.Rect(0, 0, 10, 10), image.Rect(5, 0, 15, 10), 0.5},
		{"nested small in large", image.Rect(0, 0, 20, 20), image.Rect(0, 0, 10, 10), 0.25},
		{"empty", image.Rectangle{}, image.Rect(0, 0, 10, 10), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MutualOverlap(tc.a, tc.b)
			if math.Abs(got-tc.expect) > 1e-9 {
				t.Errorf("MutualOverlap = %.4f, want %.4f", got, tc.expect)
			}
			if rev := MutualOverlap(tc.b, tc.a); math.Abs(rev-got) > 1e-9 {
				t.Errorf("overlap not symmetric: %.4f vs %.4f", got, rev)
			}
		})
	}
}

func TestMerge_Empty(t *testing.T) {
	got := Merge(nil, DefaultMergeOverlap)
	if got == nil || len(got) != 0 {
		t.Errorf("Merge(nil) = %v, want empty non-nil set", got)
	}
}

func TestMerge_OverlappingProfilesCollapse(t *testing.T) {
	candidates := []Region{
		{Rect: image.Rect(100, 100, 200, 200), Profile: ProfileDefault},
		{Rect: image.Rect(110, 104, 210, 204), Profile: ProfileAlt},
	}

	got := Merge(candidates, 0.3)
	if len(got) != 1 {
		t.Fatalf("expected 1 merged region, got %d: %v", len(got), got)
	}
	if got[0].Rect != image.Rect(105, 102, 205, 202) {
		t.Errorf("merged rect = %v, want mean rectangle (105,102)-(205,202)", got[0].Rect)
	}
	if got[0].Profile != ProfileDefault {
		t.Errorf("merged profile = %s, want first member's profile", got[0].Profile)
	}
}

func TestMerge_ThresholdBoundary(t *testing.T) {
	// 30x100 shared out of 100x100 => exactly 0.3
	a := Region{Rect: image.Rect(0, 0, 100, 100), Profile: ProfileDefault}
	b := Region{Rect: image.Rect(70, 0, 170, 100), Profile: ProfileAlt}
	if got := Merge([]Region{a, b}, 0.3); len(got) != 1 {
		t.Errorf("overlap at threshold should merge, got %d regions", len(got))
	}

	// 29x100 shared => below threshold
	c := Region{Rect: image.Rect(71, 0, 171, 100), Profile: ProfileAlt}
	if got := Merge([]Region{a, c}, 0.3); len(got) != 2 {
		t.Errorf("overlap below threshold should stay distinct, got %d regions", len(got))
	}
}

func TestMerge_DisjointStayDistinct(t *testing.T) {
	candidates := []Region{
		{Rect: image.Rect(0, 0, 50, 50), Profile: ProfileDefault},
		{Rect: image.Rect(300, 300, 350, 350), Profile: ProfileAlt2},
	}
	got := Merge(candidates, 0.3)
	if len(got) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(got))
	}
	if got[0].Rect != candidates[0].Rect || got[1].Rect != candidates[1].Rect {
		t.Errorf("singletons must survive unchanged: %v", got)
	}
}

func TestMerge_SingleDetectionSurvives(t *testing.T) {
	only := Region{Rect: image.Rect(40, 40, 90, 90), Profile: ProfileAlt2}
	got := Merge([]Region{only}, 0.3)
	if len(got) != 1 || got[0] != only {
		t.Errorf("Merge(single) = %v, want %v", got, only)
	}
}

func TestMerge_Transitive(t *testing.T) {
	// a~b and b~c, but a and c share nothing
	candidates := []Region{
		{Rect: image.Rect(0, 0, 100, 100), Profile: ProfileDefault},
		{Rect: image.Rect(50, 0, 150, 100), Profile: ProfileAlt},
		{Rect: image.Rect(100, 0, 200, 100), Profile: ProfileAlt2},
	}
	if MutualOverlap(candidates[0].Rect, candidates[2].Rect) != 0 {
		t.Fatal("test setup: a and c must be disjoint")
	}

	got := Merge(candidates, 0.3)
	if len(got) != 1 {
		t.Fatalf("expected transitive merge into 1 region, got %d", len(got))
	}
	if got[0].Rect != image.Rect(50, 0, 150, 100) {
		t.Errorf("merged rect = %v", got[0].Rect)
	}
}

func TestMerge_NoNearDuplicatesInOutput(t *testing.T) {
	candidates := []Region{
		{Rect: image.Rect(0, 0, 60, 60)},
		{Rect: image.Rect(5, 5, 65, 65)},
		{Rect: image.Rect(200, 200, 260, 260)},
		{Rect: image.Rect(204, 198, 262, 258)},
		{Rect: image.Rect(400, 50, 440, 90)},
	}
	got := Merge(candidates, 0.3)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d: %v", len(got), got)
	}
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if o := MutualOverlap(got[i].Rect, got[j].Rect); o >= 0.3 {
				t.Errorf("regions %d and %d still overlap by %.2f", i, j, o)
			}
		}
	}
}

func TestMerge_RegroupsOverlappingMeans(t *testing.T) {
	// a~b pull their mean onto c; neither a nor b reaches c on its own
	candidates := []Region{
		{Rect: image.Rect(0, 0, 100, 100), Profile: ProfileDefault},
		{Rect: image.Rect(60, 0, 160, 100), Profile: ProfileAlt},
		{Rect: image.Rect(30, 70, 130, 170), Profile: ProfileAlt2},
	}
	for _, pair := range [][2]int{{0, 2}, {1, 2}} {
		if o := MutualOverlap(candidates[pair[0]].Rect, candidates[pair[1]].Rect); o >= 0.3 {
			t.Fatalf("test setup: %v overlap %.2f must be below 0.3", pair, o)
		}
	}

	got := Merge(candidates, 0.3)
	if len(got) != 1 {
		t.Fatalf("expected the means to regroup into 1 region, got %d: %v", len(got), got)
	}
	if want := image.Rect(30, 23, 130, 123); got[0].Rect != want {
		t.Errorf("merged rect = %v, want %v (mean of all three)", got[0].Rect, want)
	}
	if got[0].Profile != ProfileDefault {
		t.Errorf("profile = %s, want first member's %s", got[0].Profile, ProfileDefault)
	}
}

func TestMerge_OutputHasNoNearDuplicates(t *testing.T) {
	tests := []struct {
		name       string
		candidates []image.Rectangle
	}{
		{"drifting chain", []image.Rectangle{
			image.Rect(0, 0, 100, 100), image.Rect(60, 0, 160, 100),
			image.Rect(30, 70, 130, 170), image.Rect(90, 60, 190, 160),
		}},
		{"staircase", []image.Rectangle{
			image.Rect(0, 0, 50, 50), image.Rect(34, 34, 84, 84),
			image.Rect(20, 20, 70, 70), image.Rect(120, 0, 170, 50),
			image.Rect(90, 10, 140, 60),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in []Region
			for _, r := range tc.candidates {
				in = append(in, Region{Rect: r})
			}
			got := Merge(in, 0.3)
			for i := range got {
				for j := i + 1; j < len(got); j++ {
					if o := MutualOverlap(got[i].Rect, got[j].Rect); o >= 0.3 {
						t.Errorf("regions %v and %v overlap by %.2f", got[i].Rect, got[j].Rect, o)
					}
				}
			}
		})
	}
}
