package query

import (
	"net/url"
	"strconv"
	"strings"
)

const filterPrefix = "f."

// FromValues restores a State from URL query values. Invalid values fall
// back to the defaults. The generation of the result is 0.
func FromValues(d Defaults, v url.Values) *State {
	s := New(d)
	if n, err := strconv.Atoi(v.Get("size")); err == nil && d.allowsSize(n) {
		s.size = n
	}
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n > 1 {
		s.page = n
	}
	switch dir := v.Get("dir"); {
	case dir == "none":
		s.sort = Sort{}
	case v.Get("sort") != "":
		s.sort = Sort{Column: v.Get("sort"), Desc: dir == "desc"}
	}
	s.search = strings.TrimSpace(v.Get("q"))
	s.status = v.Get("status")
	for key, vals := range v {
		if !strings.HasPrefix(key, filterPrefix) || len(vals) == 0 || vals[0] == "" {
			continue
		}
		s.filters[strings.TrimPrefix(key, filterPrefix)] = vals[0]
	}
	return s
}

// Values encodes the parts of the state that differ from the defaults.
func (s *State) Values() url.Values {
	v := url.Values{}
	if s.page > 1 {
		v.Set("page", strconv.Itoa(s.page))
	}
	if s.size != s.defaults.PageSize {
		v.Set("size", strconv.Itoa(s.size))
	}
	if s.sort != s.defaults.Sort {
		if s.sort.IsZero() {
			v.Set("dir", "none")
		} else {
			v.Set("sort", s.sort.Column)
			v.Set("dir", s.sort.Direction())
		}
	}
	if s.search != "" {
		v.Set("q", s.search)
	}
	if s.status != "" {
		v.Set("status", s.status)
	}
	for k, val := range s.filters {
		v.Set(filterPrefix+k, val)
	}
	return v
}

// Encode returns the URL query string of the state.
func (s *State) Encode() string {
	return s.Values().Encode()
}
