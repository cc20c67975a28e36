package core

import (
	"encoding/json"
	"net/http"
	"reflect"
	"testing"
)

func TestRecord_PreservesInsertionOrder(t *testing.T) {
	record := NewRecord(3)
	record.Set("username", "ana")
	record.Set("id", "1")
	record.SetList("comments", nil)
	record.Set("username", "ana_b")

	if got := record.Keys(); !reflect.DeepEqual(got, []string{"username", "id", "comments"}) {
		t.Fatalf("unexpected key order %v", got)
	}
	if record.Get("username") != "ana_b" || record.Get("missing") != "" {
		t.Fatalf("unexpected values %+v", record.Fields())
	}
	if list := record.List("comments"); list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil sub-list, got %#v", list)
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	if string(encoded) != `{"username":"ana_b","id":"1","comments":[]}` {
		t.Fatalf("unexpected json %s", encoded)
	}
}

func TestParseAuthorizationMode(t *testing.T) {
	cases := map[string]AuthorizationMode{
		"":       AuthorizationModeCode,
		"code":   AuthorizationModeCode,
		" TOKEN": AuthorizationModeToken,
	}
	for input, want := range cases {
		got, err := ParseAuthorizationMode(input)
		if err != nil || got != want {
			t.Fatalf("parse %q: expected %q, got %q err=%v", input, want, got, err)
		}
	}
	if _, err := ParseAuthorizationMode("implicit"); err == nil {
		t.Fatalf("expected unsupported mode error")
	}
}

func TestEndpoint_PathParamsAndAccepts(t *testing.T) {
	endpoint := Endpoint{
		Name:        "get_comments",
		Method:      http.MethodGet,
		URLTemplate: "https://social.example/v1/media/{media_id}/comments/{comment_id}",
		Required:    []string{"media_id", "comment_id"},
		Optional:    []string{"count"},
	}
	if got := endpoint.PathParams(); !reflect.DeepEqual(got, []string{"media_id", "comment_id"}) {
		t.Fatalf("unexpected path params %v", got)
	}
	if !endpoint.Accepts("count") || !endpoint.Accepts("media_id") || endpoint.Accepts("access_token") {
		t.Fatalf("unexpected accepts result")
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Type: "OAuthParameterException", Code: "400", Message: "missing client_id"}
	if err.Error() != "OAuthParameterException (400): missing client_id" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if (&APIError{Type: "TransportError", Code: "0"}).Error() != "TransportError (0)" {
		t.Fatalf("unexpected bare message")
	}
}
