package main

import "testing"

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"user_id=42", "q=a=b", "count="})
	if err != nil {
		t.Fatalf("parse params: %v", err)
	}
	if params.Get("user_id") != "42" || params.Get("q") != "a=b" {
		t.Fatalf("unexpected params %v", params)
	}
	if _, ok := params["count"]; !ok {
		t.Fatalf("expected empty value to be kept")
	}
	for _, bad := range []string{"novalue", "=x", " =x"} {
		if _, err := parseParams([]string{bad}); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestRun_ListsCommands(t *testing.T) {
	if err := run([]string{"socialconnect", "--help"}); err != nil {
		t.Fatalf("help: %v", err)
	}
}
