// internal/dataset/dataset.go
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"aidocs-ingest/internal/config"
	"aidocs-ingest/internal/model"
)

// Dataset
// ------------------------------------------------------------
// 외부 분석 엔진의 append-only 데이터셋 하나.
// WriteDataPoint 는 data point 1개를 그대로 1회 전송한다.
//   - 배치 / 재시도 없음. 실패는 즉시 호출자에게 반환한다.
//   - 자체 deadline 을 두지 않는다. 전송 계층(S3 client, NATS conn)의 timeout 만 적용.
type Dataset interface {
	Name() string
	WriteDataPoint(ctx context.Context, dp model.DataPoint) error
}

// Record 는 sink 로 실제 전송되는 직렬화 단위.
type Record struct {
	Ts      int64     `json:"ts"` // 수집 시각 (UTC epoch seconds, timecache 기반)
	Dataset string    `json:"dataset"`
	Blobs   []string  `json:"blobs"`
	Doubles []float64 `json:"doubles,omitempty"`
	Indexes []string  `json:"indexes"`
}

func newRecord(dataset string, dp model.DataPoint) Record {
	return Record{
		Ts:      Unix(),
		Dataset: dataset,
		Blobs:   dp.Blobs,
		Doubles: dp.Doubles,
		Indexes: dp.Indexes,
	}
}

// Sinks
// ------------------------------------------------------------
// RAW / VISITS 두 데이터셋과, 둘이 공유하는 연결 자원을 묶는다.
type Sinks struct {
	Raw    Dataset
	Visits Dataset

	closers []io.Closer
}

// Open
//
// cfg.SinkBackend 에 맞는 backend 로 두 데이터셋을 연다.
//   - log  : zerolog 로 기록 (개발 기본값)
//   - s3   : data point 1개 = gzip JSONL object 1개
//   - nats : <prefix>.<dataset> subject 로 publish
func Open(ctx context.Context, cfg config.Config) (*Sinks, error) {
	switch cfg.SinkBackend {
	case config.SinkLog:
		return &Sinks{
			Raw:    NewLogDataset(cfg.RawDataset),
			Visits: NewLogDataset(cfg.VisitsDataset),
		}, nil

	case config.SinkS3:
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Sinks{
			Raw:    NewS3Dataset(client, cfg.RawDataset, cfg.SinkBucket, cfg.InstanceID),
			Visits: NewS3Dataset(client, cfg.VisitsDataset, cfg.SinkBucket, cfg.InstanceID),
		}, nil

	case config.SinkNATS:
		conn, err := ConnectNATS(cfg)
		if err != nil {
			return nil, err
		}
		return &Sinks{
			Raw:     NewNATSDataset(conn, cfg.NATSSubjectPrefix, cfg.RawDataset),
			Visits:  NewNATSDataset(conn, cfg.NATSSubjectPrefix, cfg.VisitsDataset),
			closers: []io.Closer{natsCloser{conn: conn, timeout: natsFlushTimeout}},
		}, nil

	default:
		return nil, fmt.Errorf("unknown sink backend %q", cfg.SinkBackend)
	}
}

// Close 는 공유 연결을 정리한다. 여러 번 호출해도 안전하다.
func (s *Sinks) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// natsFlushTimeout 는 종료 시 버퍼에 남은 publish 를 서버까지 보내고 확인받는 최대 시간.
const natsFlushTimeout = 5 * time.Second

// natsConn 은 natsCloser 가 사용하는 *nats.Conn 의 부분 집합.
type natsConn interface {
	FlushTimeout(timeout time.Duration) error
	Close()
}

// natsCloser
//
// Drain 은 비동기라 반환 직후 프로세스가 끝나면 버퍼의 publish 가 유실된다.
// FlushTimeout 으로 서버 수신(PONG)까지 기다린 뒤 연결을 닫는다.
// flush 가 실패해도 연결은 닫는다.
type natsCloser struct {
	conn    natsConn
	timeout time.Duration
}

func (c natsCloser) Close() error {
	err := c.conn.FlushTimeout(c.timeout)
	c.conn.Close()
	if err != nil {
		return fmt.Errorf("flush nats before close: %w", err)
	}
	return nil
}
