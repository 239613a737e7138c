// Package reporttype defines the closed set of purchasable report types and
// the dispatch tables (result route, pricing, chapter count, owning store)
// that the unlock flow and the renderers share.
package reporttype

import (
	"fmt"
	"net/url"
)

type Type string

const (
	Base     Type = "base"
	Wealth   Type = "wealth"
	Love     Type = "love"
	Marriage Type = "marriage"
	Career   Type = "career"
	Couple   Type = "couple"
	Saju     Type = "saju"
)

// StoreKind identifies which record store owns a report type.
type StoreKind int

const (
	FaceStore StoreKind = iota
	CoupleStore
	SajuStore
)

type info struct {
	orderName     string
	price         int64
	originalPrice int64
	chapters      int
	resultPath    string
	store         StoreKind
}

var table = map[Type]info{
	Base:     {"기본 관상 리포트", 9900, 29900, 0, "/base/result", FaceStore},
	Wealth:   {"재물 리포트", 16900, 34900, 8, "/wealth/result", FaceStore},
	Love:     {"연애 리포트", 6900, 14900, 7, "/love/result", FaceStore},
	Marriage: {"결혼 리포트", 9900, 16900, 6, "/marriage/result", FaceStore},
	Career:   {"직업 리포트", 16900, 34900, 8, "/career/result", FaceStore},
	Couple:   {"궁합 리포트", 9900, 21140, 6, "/couple/result", CoupleStore},
	Saju:     {"연애 사주 리포트", 14900, 32900, 0, "/saju-love/result", SajuStore},
}

// Parse validates a report type coming in from a query parameter. An empty
// string defaults to Base; anything outside the closed set is an error
// rather than a silent base fallback.
func Parse(s string) (Type, error) {
	if s == "" {
		return Base, nil
	}
	t := Type(s)
	if _, ok := table[t]; !ok {
		return "", fmt.Errorf("unknown report type %q", s)
	}
	return t, nil
}

// FaceTypes lists the types stored per-report inside a face record, in the
// order the product page presents them.
func FaceTypes() []Type {
	return []Type{Base, Wealth, Love, Marriage, Career}
}

func (t Type) String() string { return string(t) }

func (t Type) OrderName() string { return table[t].orderName }

// Price is the charged amount in KRW.
func (t Type) Price() int64 { return table[t].price }

func (t Type) OriginalPrice() int64 { return table[t].originalPrice }

// Chapters is the number of detail sections the analysis API returns for
// this type (detail1..detailN). Zero means the report is not chaptered
// (base is flat summary/detail, saju has its own payload).
func (t Type) Chapters() int { return table[t].chapters }

func (t Type) Store() StoreKind { return table[t].store }

// ResultRoute is the frontend route the unlock flow redirects to once the
// report is paid. Couple and saju have dedicated result pages.
func (t Type) ResultRoute(recordID string) string {
	return table[t].resultPath + "?id=" + url.QueryEscape(recordID)
}
