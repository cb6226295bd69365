package model

import (
	"net/url"
	"strconv"
)

// PagingParams is the combined filter/sort/page/size object sent to list endpoints.
// Zero values are treated as "not set" and are left out of the query string.
type PagingParams struct {
	FilterBy       string `json:"filterBy,omitempty"`
	FilterQuery    string `json:"filterQuery,omitempty"`
	Page           int    `json:"page,omitempty"`
	Size           int    `json:"size,omitempty"`
	SortBy         string `json:"sortBy,omitempty"`
	IsAsc          *bool  `json:"isAsc,omitempty"`
	Status         string `json:"status,omitempty"`
	IsSynced       *bool  `json:"isSynced,omitempty"`
	KioskVersionID string `json:"kioskVersionId,omitempty"`
	ProductID      string `json:"productId,omitempty"`
	Type           string `json:"type,omitempty"`
	ProductType    string `json:"productType,omitempty"`
	ProductSize    string `json:"productSize,omitempty"`
	HasMenu        *bool  `json:"hasMenu,omitempty"`
}

// Values encodes the set fields using the backend's parameter names.
func (p PagingParams) Values() url.Values {
	v := url.Values{}
	setString := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setBool := func(key string, val *bool) {
		if val != nil {
			v.Set(key, strconv.FormatBool(*val))
		}
	}

	setString("filterBy", p.FilterBy)
	setString("filterQuery", p.FilterQuery)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	setString("sortBy", p.SortBy)
	setBool("isAsc", p.IsAsc)
	setString("status", p.Status)
	setBool("isSynced", p.IsSynced)
	setString("kioskVersionId", p.KioskVersionID)
	setString("productId", p.ProductID)
	setString("type", p.Type)
	setString("productType", p.ProductType)
	setString("productSize", p.ProductSize)
	setBool("hasMenu", p.HasMenu)
	return v
}

// Encode returns the canonical query string; keys are sorted so equal
// params always produce the same string.
func (p PagingParams) Encode() string {
	return p.Values().Encode()
}

// PagingResponse is one page of a list endpoint.
type PagingResponse[T any] struct {
	Size       int `json:"size"`
	Page       int `json:"page"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// Bool returns a pointer to b, for the optional boolean params.
func Bool(b bool) *bool {
	return &b
}
