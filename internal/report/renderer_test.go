package report_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"face-fortune-backend/internal/fortune"
	"face-fortune-backend/internal/models"
	"face-fortune-backend/internal/report"
	"face-fortune-backend/internal/reporttype"
	"face-fortune-backend/internal/store"
)

type fakeStore struct {
	faces   map[string]*models.FaceRecord
	couples map[string]*models.CoupleRecord
	sajus   map[string]*models.SajuRecord
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		faces:   map[string]*models.FaceRecord{},
		couples: map[string]*models.CoupleRecord{},
		sajus:   map[string]*models.SajuRecord{},
	}
}

func (f *fakeStore) GetFace(ctx context.Context, id string) (*models.FaceRecord, error) {
	rec, ok := f.faces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) PutFace(ctx context.Context, rec *models.FaceRecord) error {
	f.puts++
	f.faces[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetCouple(ctx context.Context, id string) (*models.CoupleRecord, error) {
	rec, ok := f.couples[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) PutCouple(ctx context.Context, rec *models.CoupleRecord) error {
	f.puts++
	f.couples[rec.ID] = rec
	return nil
}

func (f *fakeStore) GetSaju(ctx context.Context, id string) (*models.SajuRecord, error) {
	rec, ok := f.sajus[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) PutSaju(ctx context.Context, rec *models.SajuRecord) error {
	f.puts++
	f.sajus[rec.ID] = rec
	return nil
}

type fakeAnalyzer struct {
	baseCalls   int
	detailCalls int
}

func (f *fakeAnalyzer) AnalyzeBase(ctx context.Context, feature string) (*fortune.BaseReportResponse, error) {
	f.baseCalls++
	return &fortune.BaseReportResponse{Summary: "free summary", Detail: "paid detail"}, nil
}

func (f *fakeAnalyzer) GenerateDetails(ctx context.Context, t reporttype.Type, feature string) ([]string, error) {
	f.detailCalls++
	details := make([]string, t.Chapters())
	for i := range details {
		details[i] = "chapter content"
	}
	return details, nil
}

func (f *fakeAnalyzer) CoupleReport(ctx context.Context, rec *models.CoupleRecord) ([]string, error) {
	f.detailCalls++
	details := make([]string, reporttype.Couple.Chapters())
	for i := range details {
		details[i] = "couple chapter"
	}
	return details, nil
}

func (f *fakeAnalyzer) CoupleScore(ctx context.Context, detail string) (int, error) {
	return 87, nil
}

type fakeLove struct {
	calls int
}

func (f *fakeLove) AnalyzeLove(ctx context.Context, sajuData json.RawMessage, userName, userConcern string, year int) (json.RawMessage, error) {
	f.calls++
	return json.RawMessage(`{"love":"report"}`), nil
}

type nopSink struct{}

func (nopSink) Track(event string, props map[string]interface{}) {}

func newTestRenderer(st *fakeStore, an *fakeAnalyzer, lv *fakeLove) *report.Renderer {
	return report.NewRenderer(st, an, lv, nopSink{}, zap.NewNop(), "https://example.com", "toss_ck_test")
}

func faceRecord(id string) *models.FaceRecord {
	return &models.FaceRecord{
		ID:        id,
		Features:  "tok-1",
		Reports:   models.NewReportsSkeleton(),
		CreatedAt: time.Now(),
	}
}

func TestRenderFaceBaseMasksDetailUntilPaid(t *testing.T) {
	st := newFakeStore()
	st.faces["r1"] = faceRecord("r1")
	an := &fakeAnalyzer{}
	renderer := newTestRenderer(st, an, &fakeLove{})

	resp, err := renderer.RenderFace(context.Background(), reporttype.Base, "r1")
	require.NoError(t, err)

	assert.False(t, resp.Paid)
	require.Len(t, resp.Sections, 2)
	assert.Equal(t, "free summary", resp.Sections[0].Body)
	assert.False(t, resp.Sections[0].Masked)
	assert.Empty(t, resp.Sections[1].Body, "unpaid detail must not leak")
	assert.True(t, resp.Sections[1].Masked)

	require.NotNil(t, resp.Payment)
	assert.Equal(t, int64(9900), resp.Payment.Price)
	assert.Equal(t, "toss_ck_test", resp.Payment.ClientKey)
	assert.Contains(t, resp.Payment.SuccessURL, "https://example.com/payment/success?")
	assert.Contains(t, resp.Payment.SuccessURL, "id=r1")
	assert.Contains(t, resp.Payment.SuccessURL, "type=base")
}

func TestRenderFaceGeneratesOnce(t *testing.T) {
	st := newFakeStore()
	st.faces["r1"] = faceRecord("r1")
	an := &fakeAnalyzer{}
	renderer := newTestRenderer(st, an, &fakeLove{})

	_, err := renderer.RenderFace(context.Background(), reporttype.Wealth, "r1")
	require.NoError(t, err)
	_, err = renderer.RenderFace(context.Background(), reporttype.Wealth, "r1")
	require.NoError(t, err)

	assert.Equal(t, 1, an.detailCalls, "content is generated once and persisted")
	assert.Equal(t, 1, st.puts)
}

func TestRenderFacePaidShowsAllChapters(t *testing.T) {
	st := newFakeStore()
	rec := faceRecord("r1")
	rec.Reports[reporttype.Wealth] = &models.ReportEntry{
		Paid: true,
		Data: &models.ReportData{IsMulti: true, Details: []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"}},
	}
	st.faces["r1"] = rec
	an := &fakeAnalyzer{}
	renderer := newTestRenderer(st, an, &fakeLove{})

	resp, err := renderer.RenderFace(context.Background(), reporttype.Wealth, "r1")
	require.NoError(t, err)

	assert.True(t, resp.Paid)
	assert.Nil(t, resp.Payment)
	require.Len(t, resp.Sections, 8)
	for _, sec := range resp.Sections {
		assert.False(t, sec.Masked)
		assert.NotEmpty(t, sec.Body)
	}
	assert.Equal(t, 0, an.detailCalls)
}

func TestRenderFaceWithoutFeatures(t *testing.T) {
	for name, features := range map[string]string{
		"empty":          "",
		"retry sentinel": models.FeatureRetrySentinel,
	} {
		t.Run(name, func(t *testing.T) {
			st := newFakeStore()
			rec := faceRecord("r1")
			rec.Features = features
			st.faces["r1"] = rec
			an := &fakeAnalyzer{}
			renderer := newTestRenderer(st, an, &fakeLove{})

			_, err := renderer.RenderFace(context.Background(), reporttype.Base, "r1")
			assert.ErrorIs(t, err, report.ErrNoFeatures)
			assert.Equal(t, 0, an.baseCalls, "no generation call for an unanalyzable record")
		})
	}
}

func TestRenderFaceMissingRecord(t *testing.T) {
	renderer := newTestRenderer(newFakeStore(), &fakeAnalyzer{}, &fakeLove{})
	_, err := renderer.RenderFace(context.Background(), reporttype.Base, "absent")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRenderCoupleKeepsFirstChapterFree(t *testing.T) {
	st := newFakeStore()
	st.couples["c1"] = &models.CoupleRecord{
		ID:        "c1",
		Features1: "tok-a",
		Features2: "tok-b",
		CreatedAt: time.Now(),
	}
	renderer := newTestRenderer(st, &fakeAnalyzer{}, &fakeLove{})

	resp, err := renderer.RenderCouple(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, 87, resp.Score)
	require.Len(t, resp.Sections, 6)
	assert.False(t, resp.Sections[0].Masked)
	assert.NotEmpty(t, resp.Sections[0].Body)
	for _, sec := range resp.Sections[1:] {
		assert.True(t, sec.Masked)
		assert.Empty(t, sec.Body)
	}
	require.NotNil(t, resp.Payment)
	assert.Equal(t, int64(9900), resp.Payment.Price)
}

func TestRenderSajuWithholdsReportUntilPaid(t *testing.T) {
	st := newFakeStore()
	st.sajus["s1"] = &models.SajuRecord{
		ID:        "s1",
		Input:     json.RawMessage(`{"gender":"female","date":"1995-03-01","calendar":"solar","user_name":"Kim"}`),
		SajuData:  json.RawMessage(`{"pillars":[]}`),
		CreatedAt: time.Now(),
	}
	lv := &fakeLove{}
	renderer := newTestRenderer(st, &fakeAnalyzer{}, lv)

	resp, err := renderer.RenderSaju(context.Background(), "s1")
	require.NoError(t, err)

	assert.False(t, resp.Paid)
	assert.Nil(t, resp.Report, "unpaid saju report must not leak")
	require.NotNil(t, resp.Payment)
	assert.Equal(t, int64(14900), resp.Payment.Price)
	assert.Equal(t, 1, lv.calls)

	// Pay and re-render: content comes back without regeneration.
	st.sajus["s1"].Paid = true
	resp, err = renderer.RenderSaju(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, resp.Paid)
	assert.JSONEq(t, `{"love":"report"}`, string(resp.Report))
	assert.Nil(t, resp.Payment)
	assert.Equal(t, 1, lv.calls)
}
