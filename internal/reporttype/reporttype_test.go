package reporttype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-fortune-backend/internal/reporttype"
)

func TestParseKnownTypes(t *testing.T) {
	for _, name := range []string{"base", "wealth", "love", "marriage", "career", "couple", "saju"} {
		parsed, err := reporttype.Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, parsed.String())
	}
}

func TestParseEmptyDefaultsToBase(t *testing.T) {
	parsed, err := reporttype.Parse("")
	require.NoError(t, err)
	assert.Equal(t, reporttype.Base, parsed)
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := reporttype.Parse("tarot")
	assert.Error(t, err)
}

func TestPricing(t *testing.T) {
	cases := []struct {
		t             reporttype.Type
		price         int64
		originalPrice int64
	}{
		{reporttype.Base, 9900, 29900},
		{reporttype.Wealth, 16900, 34900},
		{reporttype.Love, 6900, 14900},
		{reporttype.Marriage, 9900, 16900},
		{reporttype.Career, 16900, 34900},
		{reporttype.Couple, 9900, 21140},
		{reporttype.Saju, 14900, 32900},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.price, tc.t.Price(), tc.t.String())
		assert.Equal(t, tc.originalPrice, tc.t.OriginalPrice(), tc.t.String())
		assert.NotEmpty(t, tc.t.OrderName(), tc.t.String())
	}
}

func TestChapterCounts(t *testing.T) {
	assert.Equal(t, 8, reporttype.Wealth.Chapters())
	assert.Equal(t, 8, reporttype.Career.Chapters())
	assert.Equal(t, 7, reporttype.Love.Chapters())
	assert.Equal(t, 6, reporttype.Marriage.Chapters())
	assert.Equal(t, 6, reporttype.Couple.Chapters())
	assert.Equal(t, 0, reporttype.Base.Chapters())
}

func TestResultRoutes(t *testing.T) {
	assert.Equal(t, "/wealth/result?id=abc", reporttype.Wealth.ResultRoute("abc"))
	assert.Equal(t, "/couple/result?id=abc", reporttype.Couple.ResultRoute("abc"))
	assert.Equal(t, "/saju-love/result?id=abc", reporttype.Saju.ResultRoute("abc"))
	// id values go through URL escaping
	assert.Equal(t, "/base/result?id=a+b", reporttype.Base.ResultRoute("a b"))
}

func TestStoreDispatch(t *testing.T) {
	for _, ft := range reporttype.FaceTypes() {
		assert.Equal(t, reporttype.FaceStore, ft.Store(), ft.String())
	}
	assert.Equal(t, reporttype.CoupleStore, reporttype.Couple.Store())
	assert.Equal(t, reporttype.SajuStore, reporttype.Saju.Store())
}
