package query

import (
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-admin-console/internal/model"
)

func newState() *State {
	return New(Defaults{
		PageSize:        10,
		PageSizeOptions: []int{10, 20, 50},
		SearchField:     "name",
		Sort:            Sort{Column: "createdDate", Desc: true},
	})
}

func TestNextSort(t *testing.T) {
	testCases := []struct {
		name      string
		cur       Sort
		column    string
		clearable bool
		want      Sort
	}{
		{"other column starts ascending", Sort{Column: "a", Desc: true}, "b", true, Sort{Column: "b"}},
		{"asc to desc", Sort{Column: "a"}, "a", true, Sort{Column: "a", Desc: true}},
		{"desc to none", Sort{Column: "a", Desc: true}, "a", true, Sort{}},
		{"desc back to asc when pinned", Sort{Column: "a", Desc: true}, "a", false, Sort{Column: "a"}},
		{"none to asc", Sort{}, "a", true, Sort{Column: "a"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextSort(tc.cur, tc.column, tc.clearable))
		})
	}
}

func TestEveryFilterOrSortChangeResetsPage(t *testing.T) {
	changes := map[string]func(s *State) bool{
		"sort":      func(s *State) bool { return s.ToggleSort("name") },
		"set sort":  func(s *State) bool { return s.SetSort(Sort{Column: "status"}) },
		"column":    func(s *State) bool { return s.SetColumnFilter("type", "Activity") },
		"status":    func(s *State) bool { return s.SetStatus(model.BaseStatusActive) },
		"search":    func(s *State) bool { return s.ApplySearch("abc") },
		"page size": func(s *State) bool { return s.SetPageSize(20) },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := newState()
			require.True(t, s.SetPage(4))
			gen := s.Generation()

			require.True(t, change(s))
			assert.Equal(t, 1, s.Page())
			assert.Greater(t, s.Generation(), gen)
		})
	}
}

func TestClearFiltersResetsPage(t *testing.T) {
	s := newState()
	s.ApplySearch("abc")
	s.SetStatus(model.BaseStatusInactive)
	s.SetPage(3)

	require.True(t, s.ClearFilters())
	assert.Equal(t, 1, s.Page())
	assert.Empty(t, s.Search())
	assert.Empty(t, s.Status())
	assert.False(t, s.ClearFilters())
}

func TestNoOpChangesKeepGeneration(t *testing.T) {
	s := newState()
	s.ApplySearch("abc")
	gen := s.Generation()

	assert.False(t, s.ApplySearch("abc"))
	assert.False(t, s.SetPage(1))
	assert.False(t, s.SetPage(-5))
	assert.False(t, s.SetPageSize(10))
	assert.False(t, s.SetPageSize(33))
	assert.False(t, s.SetColumnFilter("type", ""))
	assert.False(t, s.SetSort(Sort{Column: "createdDate", Desc: true}))
	assert.Equal(t, gen, s.Generation())
}

func TestSetPageDoesNotResetItself(t *testing.T) {
	s := newState()
	require.True(t, s.SetPage(3))
	assert.Equal(t, 3, s.Page())
	assert.Equal(t, uint64(1), s.Generation())
}

func TestParams(t *testing.T) {
	s := newState()
	p := s.Params()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Size)
	assert.Equal(t, "createdDate", p.SortBy)
	require.NotNil(t, p.IsAsc)
	assert.False(t, *p.IsAsc)
	assert.Empty(t, p.FilterBy)
	assert.Empty(t, p.FilterQuery)

	s.ApplySearch("kiosk")
	s.SetStatus(model.BaseStatusActive)
	s.SetColumnFilter("isSynced", "true")
	s.SetColumnFilter("kioskVersionId", "kv-1")
	s.SetSort(Sort{})

	p = s.Params()
	assert.Equal(t, "name", p.FilterBy)
	assert.Equal(t, "kiosk", p.FilterQuery)
	assert.Equal(t, model.BaseStatusActive, p.Status)
	require.NotNil(t, p.IsSynced)
	assert.True(t, *p.IsSynced)
	assert.Equal(t, "kv-1", p.KioskVersionID)
	assert.Empty(t, p.SortBy)
	assert.Nil(t, p.IsAsc)
}

func TestParams_ColumnFilterFallsBackToFreeText(t *testing.T) {
	s := newState()
	s.SetColumnFilter("serialNumber", "SN-1")
	p := s.Params()
	assert.Equal(t, "serialNumber", p.FilterBy)
	assert.Equal(t, "SN-1", p.FilterQuery)

	s.ApplySearch("printer")
	p = s.Params()
	assert.Equal(t, "name", p.FilterBy)
	assert.Equal(t, "printer", p.FilterQuery)
}

func TestURLRoundTrip(t *testing.T) {
	s := newState()
	s.ApplySearch("máy in")
	s.SetStatus(model.DeviceStatusWorking)
	s.SetColumnFilter("type", "Callback")
	s.ToggleSort("name")
	s.SetPageSize(50)
	s.SetPage(2)

	restored := FromValues(s.Defaults(), s.Values())
	assert.Equal(t, s.Params(), restored.Params())
	assert.Equal(t, s.Encode(), restored.Encode())
	assert.Equal(t, uint64(0), restored.Generation())
}

func TestURL_ClearedSortSurvives(t *testing.T) {
	s := newState()
	s.SetSort(Sort{})
	assert.Equal(t, "none", s.Values().Get("dir"))

	restored := FromValues(s.Defaults(), s.Values())
	assert.True(t, restored.Sort().IsZero())
}

func TestFromValues_InvalidFallsBack(t *testing.T) {
	d := newState().Defaults()
	s := FromValues(d, url.Values{"page": {"-3"}, "size": {"999"}, "f.type": {""}})
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, 10, s.PageSize())
	assert.Empty(t, s.Filters())
	assert.Equal(t, d.Sort, s.Sort())
	assert.Empty(t, s.Encode())
}

func TestClone_IsIndependent(t *testing.T) {
	s := newState()
	s.SetColumnFilter("type", "Activity")
	c := s.Clone()
	c.SetColumnFilter("type", "Callback")
	assert.Equal(t, "Activity", s.Filter("type"))
}

type collector struct {
	mu     sync.Mutex
	values []string
}

func (c *collector) add(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.values...)
}

func TestDebouncer_DeliversLastValueOnce(t *testing.T) {
	got := &collector{}
	d := NewDebouncer(100*time.Millisecond, got.add)

	for _, v := range []string{"a", "ab", "abc"} {
		d.Trigger(v)
		time.Sleep(10 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return len(got.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"abc"}, got.get())
	assert.False(t, d.Pending())
}

func TestDebouncer_SearchIssuesOneFetch(t *testing.T) {
	s := newState()
	var mu sync.Mutex
	var fetched []model.PagingParams
	d := NewDebouncer(DefaultDebounce, func(v string) {
		mu.Lock()
		defer mu.Unlock()
		if s.ApplySearch(v) {
			fetched = append(fetched, s.Params())
		}
	})

	d.Trigger("a")
	d.Trigger("ab")
	d.Trigger("abc")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fetched) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "abc", fetched[0].FilterQuery)
}

func TestDebouncer_StopDiscardsPending(t *testing.T) {
	got := &collector{}
	d := NewDebouncer(30*time.Millisecond, got.add)
	d.Trigger("abc")
	d.Stop()
	d.Trigger("later")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, got.get())
}

func TestDebouncer_StopWaitsForRunningDelivery(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	d := NewDebouncer(time.Millisecond, func(string) {
		close(entered)
		<-release
		finished.Store(true)
	})
	d.Trigger("abc")
	<-entered

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while deliver was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-stopped
	assert.True(t, finished.Load())
}
