package query

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestScopeToOutput_DoesNotMutateReceiver(t *testing.T) {
	base := NewSelect("documents")

	scoped := base.ScopeToOutput("text", "embedder").(Select)
	if len(base.Scopes) != 0 {
		t.Fatalf("base selection mutated: %v", base.Scopes)
	}
	if len(scoped.Scopes) != 1 {
		t.Fatalf("expected 1 scope, got %v", scoped.Scopes)
	}
	if scoped.Scopes[0] != (OutputScope{Key: "text", Identifier: "embedder"}) {
		t.Errorf("unexpected scope: %+v", scoped.Scopes[0])
	}
}

func TestScopeToOutput_IndependentBranches(t *testing.T) {
	base := NewSelect("documents")

	left := base.ScopeToOutput("text", "embedder").(Select)
	right := base.ScopeToOutput("text", "ranker").(Select)

	if left.Scopes[0].Identifier != "embedder" || right.Scopes[0].Identifier != "ranker" {
		t.Errorf("branches should not share scope state: %v vs %v", left.Scopes, right.Scopes)
	}
}

func TestScopeToOutput_ComposesInOrder(t *testing.T) {
	sel := NewSelect("documents").
		ScopeToOutput("text", "embedder").(Select).
		ScopeToOutput("text", "ranker").(Select)

	ids := []string{sel.Scopes[0].Identifier, sel.Scopes[1].Identifier}
	if !reflect.DeepEqual(ids, []string{"embedder", "ranker"}) {
		t.Errorf("scopes out of order: %v", ids)
	}
}

func TestWithFilter_Merges(t *testing.T) {
	base := NewSelect("documents").WithFilter(Document{"lang": "en"})
	refined := base.WithFilter(Document{"split": "train"})

	if len(base.Filter) != 1 {
		t.Errorf("base filter mutated: %v", base.Filter)
	}
	if refined.Filter["lang"] != "en" || refined.Filter["split"] != "train" {
		t.Errorf("unexpected merged filter: %v", refined.Filter)
	}
}

func TestOutputScope_Location(t *testing.T) {
	scope := OutputScope{Key: "text", Identifier: "embedder"}
	if scope.Location() != "_outputs.text.embedder" {
		t.Errorf("unexpected location %q", scope.Location())
	}

	// A pass without original data produces an unkeyed scope; its
	// location must stay well-formed.
	unkeyed := NewSelect("documents").ScopeToOutput(nil, "embedder").(Select)
	if got := unkeyed.Scopes[0].Location(); got != "_outputs.embedder" {
		t.Errorf("unexpected unkeyed location %q", got)
	}
}

func TestSelect_String(t *testing.T) {
	sel := NewSelect("documents").ScopeToOutput("text", "embedder").(Select)
	want := "documents + _outputs.text.embedder"
	if sel.String() != want {
		t.Errorf("expected %q, got %q", want, sel.String())
	}
}

func TestSelect_JSONRoundTrip(t *testing.T) {
	sel := NewSelect("documents").
		WithFilter(Document{"lang": "en"}).
		ScopeToOutput("text", "embedder").(Select)

	data, err := json.Marshal(sel)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Select
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Collection != "documents" {
		t.Errorf("unexpected collection %q", decoded.Collection)
	}
	if len(decoded.Scopes) != 1 || decoded.Scopes[0].Identifier != "embedder" {
		t.Errorf("unexpected scopes %v", decoded.Scopes)
	}
}

func TestKeyOf(t *testing.T) {
	if keyOf(nil) != "" {
		t.Error("nil data should produce an empty key")
	}
	if keyOf("text") != "text" {
		t.Error("string data should be its own key")
	}
	if keyOf(42) != "42" {
		t.Error("non-string data should be formatted")
	}
}
