package filehost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := New("RpmShare", "rpm", srv.URL, "test-key", ClientConfig{MaxRetries: 1, RetryBaseDelay: 1})
	return c, srv.Close
}

func TestFetchEpisodes_MapsAndSorts(t *testing.T) {
	c, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("fld_id"); got != "111" {
			t.Errorf("fld_id = %q, want 111", got)
		}
		w.Write([]byte(`{
			"msg": "OK",
			"result": {"files": [
				{"title": "Show Name E02 1080p.mkv", "file_code": "b", "length": 1470},
				{"title": "Show Name E01 1080p.mkv", "file_code": "a", "thumbnail": "https://img/1.jpg"}
			]}
		}`))
	})
	defer done()

	got, err := c.FetchEpisodes(context.Background(), "111")
	if err != nil {
		t.Fatalf("FetchEpisodes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	first := got[0]
	if first.Number != 1 || first.ID != "rpm-a" || first.Provider != "RpmShare" {
		t.Errorf("first record = %+v, want episode 1 from rpm-a", first)
	}
	if first.Title != "Show Name" {
		t.Errorf("Title = %q, want cleaned %q", first.Title, "Show Name")
	}
	if first.Duration != 24 {
		t.Errorf("Duration = %d, want default 24", first.Duration)
	}
	if first.Thumbnail != "https://img/1.jpg" {
		t.Errorf("Thumbnail = %q", first.Thumbnail)
	}
	if got[1].Duration != 24 { // 1470s -> 24m floor
		t.Errorf("Duration = %d, want 24", got[1].Duration)
	}
}

func TestFetchEpisodes_ErrorStatusIsEmptyNotError(t *testing.T) {
	c, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"msg": "Wrong Auth", "status": "error", "message": "invalid key"}`))
	})
	defer done()

	got, err := c.FetchEpisodes(context.Background(), "111")
	if err != nil {
		t.Fatalf("FetchEpisodes: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestFetchEpisodes_EmptyFolder(t *testing.T) {
	c, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"msg": "OK", "result": {"files": []}}`))
	})
	defer done()

	got, err := c.FetchEpisodes(context.Background(), "111")
	if err != nil {
		t.Fatalf("FetchEpisodes: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestFetchEpisodes_Non2xxIsError(t *testing.T) {
	c, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer done()

	if _, err := c.FetchEpisodes(context.Background(), "111"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestFetchEpisodes_LenientParse(t *testing.T) {
	// length as a string breaks the strict schema; the tolerant path
	// must still recover the listing.
	c, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"msg": "OK",
			"result": {"files": [
				{"title": "Show E03.mkv", "file_code": "c", "length": "1500"}
			]}
		}`))
	})
	defer done()

	got, err := c.FetchEpisodes(context.Background(), "111")
	if err != nil {
		t.Fatalf("FetchEpisodes: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Number != 3 || got[0].Duration != 25 {
		t.Errorf("record = %+v, want number 3 duration 25", got[0])
	}
}

func TestFetchEpisodes_MissingFileCodeKept(t *testing.T) {
	c, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"msg": "OK", "result": {"files": [{"title": "Show E01.mkv", "length": "x"}]}}`))
	})
	defer done()

	got, err := c.FetchEpisodes(context.Background(), "111")
	if err != nil {
		t.Fatalf("FetchEpisodes: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].FileCode != "" {
		t.Errorf("FileCode = %q, want empty", got[0].FileCode)
	}
	if got[0].ID != "rpm-unknown" {
		t.Errorf("ID = %q, want rpm-unknown", got[0].ID)
	}
}

func TestDecodeFileList_Garbage(t *testing.T) {
	if _, err := decodeFileList([]byte(`not json`)); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}
