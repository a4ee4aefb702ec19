package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"aidocs-ingest/internal/classifier"
	"aidocs-ingest/internal/metrics"
	"aidocs-ingest/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDataset 은 기록된 data point 를 메모리에 쌓는 테스트용 Dataset.
type memDataset struct {
	name string
	err  error

	mu     sync.Mutex
	points []model.DataPoint
}

func (d *memDataset) Name() string { return d.name }

func (d *memDataset) WriteDataPoint(_ context.Context, dp model.DataPoint) error {
	if d.err != nil {
		return d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.points = append(d.points, dp)
	return nil
}

func newTestPipeline() (*Pipeline, *memDataset, *memDataset, *metrics.Metrics) {
	raw := &memDataset{name: "ai_docs_raw_events"}
	visits := &memDataset{name: "ai_docs_visits"}
	m := metrics.New()
	return NewPipeline(raw, visits, m), raw, visits, m
}

func TestTrack_SkipsNonPageView(t *testing.T) {
	p, raw, visits, m := newTestPipeline()

	out, err := p.Track(context.Background(), &model.TrackRequest{
		AcceptHeader: "application/json",
		UserAgentRaw: "Mozilla/5.0",
	})
	require.NoError(t, err)

	assert.Equal(t, SkipNotPageView, out.Skip)
	assert.Empty(t, raw.points)
	assert.Empty(t, visits.points)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrackOutcomesTotal.WithLabelValues(outcomeSkipped)))
}

func TestTrack_EmptyAcceptIsSkipped(t *testing.T) {
	p, raw, visits, _ := newTestPipeline()

	out, err := p.Track(context.Background(), &model.TrackRequest{UserAgentRaw: "claude-code/1.0"})
	require.NoError(t, err)
	assert.Equal(t, SkipNotPageView, out.Skip)
	assert.Empty(t, raw.points)
	assert.Empty(t, visits.points)
}

func TestTrack_WritesBothDatasets(t *testing.T) {
	p, raw, visits, m := newTestPipeline()

	out, err := p.Track(context.Background(), &model.TrackRequest{
		AcceptAlias: "text/html",
		UAAlias:     "Mozilla/5.0 (compatible; Googlebot/2.1)",
		HostRaw:     "docs.example.com",
		PathRaw:     "/guide",
		CountryRaw:  "US",
	})
	require.NoError(t, err)

	assert.Empty(t, out.Skip)
	assert.Equal(t, classifier.Classification{Category: classifier.CategoryBot, Agent: "googlebot", Filtered: true}, out.Classification)

	require.Len(t, raw.points, 1)
	assert.Equal(t, []string{"docs.example.com", "/guide", "Mozilla/5.0 (compatible; Googlebot/2.1)", "text/html", "US"}, raw.points[0].Blobs)
	assert.Equal(t, []string{"docs.example.com"}, raw.points[0].Indexes)

	require.Len(t, visits.points, 1)
	assert.Equal(t, []string{"docs.example.com", "/guide", "bot", "googlebot", "US"}, visits.points[0].Blobs)
	assert.Equal(t, []float64{1}, visits.points[0].Doubles)
	assert.Equal(t, []string{"docs.example.com"}, visits.points[0].Indexes)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrackOutcomesTotal.WithLabelValues(outcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationsTotal.WithLabelValues("bot", "googlebot")))
}

func TestTrack_DefaultsAndTruncation(t *testing.T) {
	p, raw, visits, _ := newTestPipeline()

	longUA := "Mozilla/5.0 " + strings.Repeat("a", 700)
	longAccept := "text/html," + strings.Repeat("b", 700)

	out, err := p.Track(context.Background(), &model.TrackRequest{
		AcceptHeader: longAccept,
		UserAgentRaw: longUA,
	})
	require.NoError(t, err)
	assert.Equal(t, classifier.CategoryHuman, out.Classification.Category)

	blobs := raw.points[0].Blobs
	assert.Equal(t, model.DefaultHost, blobs[0])
	assert.Equal(t, model.DefaultPath, blobs[1])
	assert.Len(t, blobs[2], model.MaxHeaderLen)
	assert.Len(t, blobs[3], model.MaxHeaderLen)
	assert.Equal(t, model.DefaultCountry, blobs[4])

	assert.Equal(t, []float64{0}, visits.points[0].Doubles)
}

func TestTrack_ClassifiesWithFullHeaders(t *testing.T) {
	p, _, visits, _ := newTestPipeline()

	// 분류는 자르기 전 원본 값으로 한다
	ua := strings.Repeat("x", 600) + " claude-code"
	_, err := p.Track(context.Background(), &model.TrackRequest{AcceptHeader: "text/plain", UserAgentRaw: ua})
	require.NoError(t, err)
	assert.Equal(t, "claude-code", visits.points[0].Blobs[3])
}

func TestTrack_PartialFailure(t *testing.T) {
	raw := &memDataset{name: "ai_docs_raw_events", err: errors.New("raw sink down")}
	visits := &memDataset{name: "ai_docs_visits"}
	m := metrics.New()
	p := NewPipeline(raw, visits, m)

	out, err := p.Track(context.Background(), &model.TrackRequest{AcceptHeader: "text/markdown", UserAgentRaw: "axios/1.7"})
	require.Error(t, err)

	var se *StreamError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StreamRaw, se.Stream)
	assert.Contains(t, err.Error(), "raw sink down")

	// raw 실패와 무관하게 visits 는 기록된다
	require.Len(t, visits.points, 1)
	assert.Equal(t, classifier.AgentClaudeCode, out.Classification.Agent)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrackOutcomesTotal.WithLabelValues(outcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetWriteErrorsTotal.WithLabelValues("ai_docs_raw_events")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DatasetWriteErrorsTotal.WithLabelValues("ai_docs_visits")))
}

func TestTrack_BothStreamsFail(t *testing.T) {
	raw := &memDataset{name: "r", err: errors.New("a")}
	visits := &memDataset{name: "v", err: errors.New("b")}
	p := NewPipeline(raw, visits, metrics.New())

	_, err := p.Track(context.Background(), &model.TrackRequest{AcceptHeader: "text/html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raw stream (r): a")
	assert.Contains(t, err.Error(), "visits stream (v): b")
}

func TestTrack_Concurrent(t *testing.T) {
	p, raw, visits, _ := newTestPipeline()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Track(context.Background(), &model.TrackRequest{AcceptHeader: "text/html", UserAgentRaw: "Mozilla/5.0"})
		}()
	}
	wg.Wait()

	assert.Len(t, raw.points, 50)
	assert.Len(t, visits.points, 50)
}
