package episodes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMerge_CombinesServersAcrossProviders(t *testing.T) {
	records := []Raw{
		{ID: "rpm-a3", Title: "Episode 3", FileCode: "a3", Provider: "RpmShare", Number: 3},
		{ID: "filemoon-b3", Title: "Episode 3", FileCode: "b3", Provider: "Filemoon", Number: 3},
	}

	got := Merge(records)
	if len(got) != 1 {
		t.Fatalf("Merge returned %d episodes, want 1", len(got))
	}
	if got[0].Number != 3 {
		t.Errorf("Number = %d, want 3", got[0].Number)
	}
	wantServers := []Server{
		{Provider: "RpmShare", FileCode: "a3"},
		{Provider: "Filemoon", FileCode: "b3"},
	}
	if diff := cmp.Diff(wantServers, got[0].Servers); diff != "" {
		t.Errorf("Servers mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DeduplicatesIdenticalServers(t *testing.T) {
	records := []Raw{
		{ID: "rpm-a3", FileCode: "a3", Provider: "RpmShare", Number: 3},
		{ID: "rpm-a3", FileCode: "a3", Provider: "RpmShare", Number: 3},
	}
	got := Merge(records)
	if len(got) != 1 {
		t.Fatalf("Merge returned %d episodes, want 1", len(got))
	}
	if len(got[0].Servers) != 1 {
		t.Errorf("Servers length = %d, want 1", len(got[0].Servers))
	}
}

func TestMerge_ThumbnailFirstWriterWins(t *testing.T) {
	withThumb := Raw{ID: "rpm-a3", FileCode: "a3", Provider: "RpmShare", Number: 3, Thumbnail: "https://img/a.jpg"}
	without := Raw{ID: "filemoon-b3", FileCode: "b3", Provider: "Filemoon", Number: 3}

	// Record with the thumbnail first: it wins.
	got := Merge([]Raw{withThumb, without})
	if got[0].Thumbnail != "https://img/a.jpg" {
		t.Errorf("Thumbnail = %q, want first writer's", got[0].Thumbnail)
	}

	// Record without the thumbnail first: value is backfilled.
	got = Merge([]Raw{without, withThumb})
	if got[0].Thumbnail != "https://img/a.jpg" {
		t.Errorf("Thumbnail = %q, want backfilled value", got[0].Thumbnail)
	}
	// But the first record still supplies identity and servers order.
	if got[0].ID != "filemoon-b3" {
		t.Errorf("ID = %q, want first record's id", got[0].ID)
	}
}

func TestMerge_ThumbnailNeverOverwritten(t *testing.T) {
	a := Raw{ID: "rpm-a3", FileCode: "a3", Provider: "RpmShare", Number: 3, Thumbnail: "https://img/a.jpg"}
	b := Raw{ID: "filemoon-b3", FileCode: "b3", Provider: "Filemoon", Number: 3, Thumbnail: "https://img/b.jpg"}

	got := Merge([]Raw{a, b})
	if got[0].Thumbnail != "https://img/a.jpg" {
		t.Errorf("Thumbnail = %q, want the value seen first", got[0].Thumbnail)
	}
}

func TestMerge_SortsByNumber(t *testing.T) {
	records := []Raw{
		{ID: "rpm-c", FileCode: "c", Provider: "RpmShare", Number: 12},
		{ID: "rpm-a", FileCode: "a", Provider: "RpmShare", Number: 1},
		{ID: "rpm-b", FileCode: "b", Provider: "RpmShare", Number: 5},
	}
	got := Merge(records)
	for i, want := range []int{1, 5, 12} {
		if got[i].Number != want {
			t.Errorf("episode %d has number %d, want %d", i, got[i].Number, want)
		}
	}
}

func TestMerge_Empty(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Errorf("Merge(nil) returned %d episodes, want 0", len(got))
	}
}
