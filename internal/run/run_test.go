package run

import "testing"

func TestSetOrder_ClampsStartIndex(t *testing.T) {
	tests := []struct {
		name    string
		startAt int
		want    int
	}{
		{"negative clamps to zero", -2, 0},
		{"in range kept", 1, 1},
		{"past end clamps to last", 9, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.SetOrder([]string{"a", "b", "c"}, tt.startAt)
			if r.Index != tt.want {
				t.Errorf("Index = %d, want %d", r.Index, tt.want)
			}
			if r.Phase != PhaseModule {
				t.Errorf("Phase = %v, want module", r.Phase)
			}
		})
	}
}

func TestSetOrder_ResumeAtSecondModule(t *testing.T) {
	r := New()
	r.SetOrder([]string{"a", "b", "c"}, 1)
	id, ok := r.CurrentModule()
	if !ok || id != "b" {
		t.Errorf("CurrentModule = %q, want b", id)
	}
}

func TestEmptyOrdering_GoesStraightToFinal(t *testing.T) {
	r := New()
	r.SetOrder(nil, 0)
	if r.Phase != PhaseFinal {
		t.Fatalf("Phase = %v, want final", r.Phase)
	}
	if r.TotalScore() != 0 || r.TotalMax() != 0 {
		t.Errorf("aggregates = %d/%d, want 0/0", r.TotalScore(), r.TotalMax())
	}
}

func TestFailLoad(t *testing.T) {
	r := New()
	r.FailLoad()
	if r.Phase != PhaseLoadFailed {
		t.Errorf("Phase = %v, want load_failed", r.Phase)
	}
}

func TestAdvance_ThroughTwoModules(t *testing.T) {
	r := New()
	r.SetOrder([]string{"a", "b"}, 0)

	r.Append(Record{ModuleID: "a", Title: "A", Score: 1, Total: 2})
	if done := r.Advance(); done {
		t.Fatal("run must not finish after the first of two modules")
	}
	if id, _ := r.CurrentModule(); id != "b" {
		t.Fatalf("CurrentModule = %q, want b", id)
	}

	r.Append(Record{ModuleID: "b", Title: "B", Score: 2, Total: 2})
	if done := r.Advance(); !done {
		t.Fatal("run must finish after the last module")
	}
	if r.Phase != PhaseFinal {
		t.Fatalf("Phase = %v, want final", r.Phase)
	}

	if got := r.TotalScore(); got != 3 {
		t.Errorf("TotalScore = %d, want 3", got)
	}
	if got := r.TotalMax(); got != 4 {
		t.Errorf("TotalMax = %d, want 4", got)
	}
	if len(r.Records) != 2 || r.Records[0].ModuleID != "a" || r.Records[1].ModuleID != "b" {
		t.Errorf("records out of order: %+v", r.Records)
	}
}

func TestAggregates_RecomputedFromRecords(t *testing.T) {
	r := New()
	r.SetOrder([]string{"a"}, 0)
	r.Append(Record{ModuleID: "a", Score: 2, Total: 3})
	r.Append(Record{ModuleID: "b", Score: 1, Total: 1})

	if r.TotalScore() != 3 {
		t.Errorf("TotalScore = %d, want 3", r.TotalScore())
	}
	if r.TotalMax() != 4 {
		t.Errorf("TotalMax = %d, want 4", r.TotalMax())
	}
}

func TestRestart_ClearsRecords(t *testing.T) {
	r := New()
	r.SetOrder([]string{"a"}, 0)
	r.Append(Record{ModuleID: "a", Score: 1, Total: 1})
	r.Advance()
	r.Restart()

	if r.Phase != PhaseLoading {
		t.Errorf("Phase = %v, want loading", r.Phase)
	}
	if len(r.Records) != 0 {
		t.Errorf("records = %d, want 0", len(r.Records))
	}
	if r.Index != 0 {
		t.Errorf("Index = %d, want 0", r.Index)
	}
}
