package domain

import (
	"sort"
	"testing"
)

func TestAnswerLedger_SetOverwrites(t *testing.T) {
	ledger := NewAnswerLedger()

	ledger.Set("q1", Answer{OptionIDs: []string{"a"}})
	ledger.Set("q1", Answer{OptionIDs: []string{"b"}})

	answer, ok := ledger.Get("q1")
	if !ok {
		t.Fatal("expected an answer for q1")
	}
	if len(answer.OptionIDs) != 1 || answer.OptionIDs[0] != "b" {
		t.Errorf("expected overwrite to [b], got %v", answer.OptionIDs)
	}
	if ledger.Len() != 1 {
		t.Errorf("overwrite must not grow the ledger, len=%d", ledger.Len())
	}
}

func TestAnswerLedger_AbsentMeansUnanswered(t *testing.T) {
	ledger := NewAnswerLedger()
	if _, ok := ledger.Get("q1"); ok {
		t.Error("empty ledger must report q1 as absent")
	}
}

func TestAnswerLedger_SurvivesNavigation(t *testing.T) {
	// Entries recorded while moving back and forth between questions are kept.
	ledger := NewAnswerLedger()
	ledger.Set("q1", Answer{Text: "one"})
	ledger.Set("q3", Answer{Text: "three"})
	ledger.Set("q2", Answer{Text: "two"})
	ledger.Set("q1", Answer{Text: "one again"})

	ids := ledger.AnsweredIDs()
	sort.Strings(ids)
	want := []string{"q1", "q2", "q3"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	if answer, _ := ledger.Get("q1"); answer.Text != "one again" {
		t.Errorf("expected latest value for q1, got %q", answer.Text)
	}
}

func TestAnswerLedger_FreshInstancePerRetake(t *testing.T) {
	first := NewAnswerLedger()
	first.Set("q1", Answer{Text: "stale"})

	retake := NewAnswerLedger()
	if retake.Len() != 0 {
		t.Error("a retake ledger must start empty")
	}
	if _, ok := retake.Get("q1"); ok {
		t.Error("answers from a prior attempt must not leak into a new ledger")
	}
}
