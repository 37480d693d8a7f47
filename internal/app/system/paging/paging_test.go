package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/x", nil))
	if p.Number != 1 || p.Limit != DefaultLimit || p.Skip != 0 {
		t.Errorf("Parse = %+v", p)
	}
}

func TestParse_Explicit(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/x?page=3&limit=20", nil))
	if p.Number != 3 || p.Limit != 20 || p.Skip != 40 {
		t.Errorf("Parse = %+v", p)
	}
}

func TestParse_ClampsAndFallsBack(t *testing.T) {
	for _, tc := range []struct {
		url        string
		page       int
		limit, skp int64
	}{
		{"/x?page=0&limit=0", 1, DefaultLimit, 0},
		{"/x?page=-2&limit=-5", 1, DefaultLimit, 0},
		{"/x?page=abc&limit=xyz", 1, DefaultLimit, 0},
		{"/x?limit=100000", 1, MaxLimit, 0},
	} {
		p := Parse(httptest.NewRequest("GET", tc.url, nil))
		if p.Number != tc.page || p.Limit != tc.limit || p.Skip != tc.skp {
			t.Errorf("Parse(%s) = %+v", tc.url, p)
		}
	}
}

func TestMeta(t *testing.T) {
	p := Page{Number: 2, Limit: 20, Skip: 20}
	m := p.Meta(45)
	if m.Total != 45 || m.TotalPages != 3 || m.Page != 2 || m.Limit != 20 {
		t.Errorf("Meta = %+v", m)
	}
}

func TestMeta_EmptyResult(t *testing.T) {
	m := Page{Number: 1, Limit: 50}.Meta(0)
	if m.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", m.TotalPages)
	}
}
