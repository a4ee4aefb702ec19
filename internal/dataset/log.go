package dataset

import (
	"context"

	"aidocs-ingest/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogDataset 은 data point 를 zerolog 이벤트로 남긴다. 로컬 개발용 기본 backend.
//
// 로그가 곧 데이터셋이므로 한 건도 버려지면 안 된다.
// 샘플러를 떼고 level 없는 이벤트(Log)로 기록해서
// LOG_SAMPLE_N / LOG_LEVEL 설정과 무관하게 항상 출력된다.
type LogDataset struct {
	name   string
	logger zerolog.Logger
}

// NewLogDataset 은 전역 로거(log.Logger)에 기록하는 LogDataset 을 만든다.
// logger.Init 이후에 호출해야 설정된 출력 / 공통 필드를 물려받는다.
func NewLogDataset(name string) *LogDataset {
	return &LogDataset{name: name, logger: log.Logger.Sample(nil)}
}

// WithLogger 는 기록 대상 로거를 바꾼다. (테스트용)
func (d *LogDataset) WithLogger(l zerolog.Logger) *LogDataset {
	d.logger = l.Sample(nil)
	return d
}

func (d *LogDataset) Name() string { return d.name }

func (d *LogDataset) WriteDataPoint(_ context.Context, dp model.DataPoint) error {
	ev := d.logger.Log().
		Str("dataset", d.name).
		Strs("blobs", dp.Blobs).
		Strs("indexes", dp.Indexes)
	if len(dp.Doubles) > 0 {
		ev = ev.Floats64("doubles", dp.Doubles)
	}
	ev.Msg("data point")
	return nil
}
