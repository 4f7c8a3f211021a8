package data

import (
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ctdata/ct-placenames/interfaces"
	"github.com/ctdata/ct-placenames/logging"
	"github.com/ctdata/ct-placenames/placenames/entities"
)

func sampleNames() entities.PlaceNames {
	return entities.PlaceNames{
		Towns:    []string{"Andover", "New Haven", "Windham"},
		Counties: []string{"New Haven County", "Windham County"},
	}
}

func TestNewDataContainer(t *testing.T) {
	logging.InitLogger("")

	dc := NewDataContainer()

	if dc.IsUpdating() {
		t.Error("NewDataContainer should not be updating")
	}
	if !dc.GetLastUpdated().IsZero() {
		t.Error("NewDataContainer should have zero lastUpdated time")
	}
	if dc.GetNames() == nil || len(dc.GetNames()) != 0 {
		t.Error("NewDataContainer should have an empty, non-nil name list")
	}
	if len(dc.GetTowns()) != 0 || len(dc.GetCounties()) != 0 {
		t.Error("NewDataContainer should have empty towns and counties")
	}
	if _, ok := dc.Lookup("Andover"); ok {
		t.Error("NewDataContainer should not find any place")
	}
}

func TestUpdateData(t *testing.T) {
	dc := NewDataContainer()
	report := &interfaces.DataQualityReport{BlankTowns: 1}

	dc.UpdateData(sampleNames(), report)

	expected := []string{"Andover", "New Haven", "Windham", "New Haven County", "Windham County"}
	if !slices.Equal(dc.GetNames(), expected) {
		t.Errorf("expected %v, got %v", expected, dc.GetNames())
	}
	if !slices.Equal(dc.GetTowns(), sampleNames().Towns) {
		t.Errorf("unexpected towns %v", dc.GetTowns())
	}
	if !slices.Equal(dc.GetCounties(), sampleNames().Counties) {
		t.Errorf("unexpected counties %v", dc.GetCounties())
	}
	if dc.GetLastUpdated().IsZero() {
		t.Error("lastUpdated should be set")
	}
	if dc.GetDataQualityReport() != report {
		t.Error("expected the report to be stored")
	}

	if etag := dc.GetETag(); etag != ListETag(expected) {
		t.Errorf("unexpected etag %s", etag)
	}
	if etag := dc.GetTownsETag(); etag != ListETag(sampleNames().Towns) {
		t.Errorf("unexpected towns etag %s", etag)
	}
	if etag := dc.GetCountiesETag(); etag != ListETag(sampleNames().Counties) {
		t.Errorf("unexpected counties etag %s", etag)
	}
}

func TestLookup(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(entities.PlaceNames{
		Towns:    []string{"Windham", "Hartford"},
		Counties: []string{"Windham County", "Hartford"},
	}, nil)

	tests := []struct {
		query string
		found bool
		place entities.Place
	}{
		{"windham", true, entities.Place{Name: "Windham", Kind: entities.KindTown}},
		{"WINDHAM COUNTY", true, entities.Place{Name: "Windham County", Kind: entities.KindCounty}},
		{"  Windham  ", true, entities.Place{Name: "Windham", Kind: entities.KindTown}},
		{"Hartford", true, entities.Place{Name: "Hartford", Kind: entities.KindTown}},
		{"Wind", false, entities.Place{}},
	}

	for _, tt := range tests {
		place, ok := dc.Lookup(tt.query)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found=%v, expected %v", tt.query, ok, tt.found)
			continue
		}
		if place != tt.place {
			t.Errorf("Lookup(%q) = %v, expected %v", tt.query, place, tt.place)
		}
	}
}

func TestETagChangesWithData(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(sampleNames(), nil)
	first := dc.GetETag()

	dc.UpdateData(sampleNames(), nil)
	if dc.GetETag() != first {
		t.Error("same data should keep the same etag")
	}

	dc.UpdateData(entities.PlaceNames{Towns: []string{"Salem"}}, nil)
	if dc.GetETag() == first {
		t.Error("different data should change the etag")
	}
}

func TestListETagKeepsElementBoundaries(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"joined element", []string{"Avon\nBethel"}, []string{"Avon", "Bethel"}},
		{"empty element", []string{"Avon", ""}, []string{"Avon"}},
		{"moved separator", []string{"Avon,", "Bethel"}, []string{"Avon", ",Bethel"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ListETag(tt.a) == ListETag(tt.b) {
				t.Errorf("expected %q and %q to have different etags", tt.a, tt.b)
			}
		})
	}

	if ListETag(nil) != ListETag([]string{}) {
		t.Error("nil and empty lists should share an etag")
	}
}

func TestETagPerListFollowsSplit(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(entities.PlaceNames{Towns: []string{"Avon", "Bethel"}, Counties: []string{"Tolland County"}}, nil)
	names, towns, counties := dc.GetETag(), dc.GetTownsETag(), dc.GetCountiesETag()

	dc.UpdateData(entities.PlaceNames{Towns: []string{"Avon"}, Counties: []string{"Bethel", "Tolland County"}}, nil)

	if dc.GetETag() != names {
		t.Error("combined list is unchanged, its etag should be too")
	}
	if dc.GetTownsETag() == towns {
		t.Error("towns etag should change when the town list changes")
	}
	if dc.GetCountiesETag() == counties {
		t.Error("counties etag should change when the county list changes")
	}
}

func TestGenerateETag(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("Andover"), {0x00, 0xFF}} {
		etag := GenerateETag(data)
		if !strings.HasPrefix(etag, `"`) || !strings.HasSuffix(etag, `"`) {
			t.Errorf("ETag should be quoted, got %s", etag)
		}
		if len(etag) != 18 {
			t.Errorf("ETag should hold 16 hex characters, got %s", etag)
		}
	}
}

func TestBeginEndUpdate(t *testing.T) {
	dc := NewDataContainer()

	if !dc.BeginUpdate() {
		t.Fatal("first BeginUpdate should succeed")
	}
	if !dc.IsUpdating() {
		t.Error("IsUpdating should be true during an update")
	}
	if dc.BeginUpdate() {
		t.Error("second BeginUpdate should fail while updating")
	}

	dc.EndUpdate()
	if dc.IsUpdating() {
		t.Error("IsUpdating should be false after EndUpdate")
	}
	if !dc.BeginUpdate() {
		t.Error("BeginUpdate should succeed after EndUpdate")
	}
}

func TestConcurrentAccess(t *testing.T) {
	dc := NewDataContainer()
	dc.UpdateData(sampleNames(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			dc.UpdateData(sampleNames(), nil)
		}()
		go func() {
			defer wg.Done()
			names := dc.GetNames()
			if len(names) != 5 {
				t.Errorf("expected a consistent snapshot of 5 names, got %d", len(names))
			}
			dc.Lookup("andover")
		}()
	}
	wg.Wait()
}

func TestServerStartTime(t *testing.T) {
	dc := NewDataContainer()
	if !dc.GetServerStartTime().IsZero() {
		t.Error("expected zero start time")
	}

	start := time.Date(2026, 10, 14, 6, 0, 0, 0, time.UTC)
	dc.SetServerStartTime(start)
	if !dc.GetServerStartTime().Equal(start) {
		t.Errorf("expected %v, got %v", start, dc.GetServerStartTime())
	}
}

func TestFoldKey(t *testing.T) {
	if FoldKey(" NEW London ") != FoldKey("new london") {
		t.Error("FoldKey should ignore case and surrounding space")
	}
}
