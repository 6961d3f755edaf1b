package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestContainsJapanese(t *testing.T) {
	if ContainsJapanese("Attack on Titan") {
		t.Error("latin text flagged as Japanese")
	}
	if !ContainsJapanese("進撃の巨人") {
		t.Error("kanji text not detected")
	}
	if !ContainsJapanese("カグヤ") {
		t.Error("katakana text not detected")
	}
}

func TestToEnglish_SkipsLatinText(t *testing.T) {
	c := New("http://127.0.0.1:0") // would fail if contacted
	if got := c.ToEnglish(context.Background(), "Already English"); got != "Already English" {
		t.Errorf("ToEnglish = %q", got)
	}
}

func TestToEnglish_ParsesNestedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[["Attack on Titan","進撃の巨人",null,null,10]],null,"ja"]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if got := c.ToEnglish(context.Background(), "進撃の巨人"); got != "Attack on Titan" {
		t.Errorf("ToEnglish = %q, want %q", got, "Attack on Titan")
	}
}

func TestToEnglish_FailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if got := c.ToEnglish(context.Background(), "進撃の巨人"); got != "進撃の巨人" {
		t.Errorf("ToEnglish = %q, want original text", got)
	}
}
