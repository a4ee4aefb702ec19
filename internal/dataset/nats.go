// internal/dataset/nats.go
package dataset

import (
	"context"
	"fmt"
	"time"

	"aidocs-ingest/internal/config"
	"aidocs-ingest/internal/model"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// IndexHeader 는 data point 의 첫 번째 index(host)를 담는 NATS 메시지 헤더.
const IndexHeader = "Index"

// MsgPublisher 는 NATSDataset 이 사용하는 *nats.Conn 의 부분 집합.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSDataset
// ------------------------------------------------------------
// data point 를 JSON 으로 직렬화해 "<prefix>.<dataset>" subject 로 publish 한다.
// core NATS publish 는 비동기 버퍼링이므로 여기서 반환되는 에러는
// 연결 상태 / 메시지 크기 등 로컬에서 판단 가능한 실패뿐이다.
type NATSDataset struct {
	pub     MsgPublisher
	name    string
	subject string
}

func NewNATSDataset(pub MsgPublisher, prefix, name string) *NATSDataset {
	subject := name
	if prefix != "" {
		subject = prefix + "." + name
	}
	return &NATSDataset{pub: pub, name: name, subject: subject}
}

// ConnectNATS 는 무한 재연결 옵션으로 NATS 에 연결한다.
func ConnectNATS(cfg config.Config) (*nats.Conn, error) {
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name(cfg.ServiceName+"-"+cfg.InstanceID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrlRedacted()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

func (d *NATSDataset) Name() string { return d.name }

// Subject 는 publish 대상 subject.
func (d *NATSDataset) Subject() string { return d.subject }

func (d *NATSDataset) WriteDataPoint(ctx context.Context, dp model.DataPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeJSON(newRecord(d.name, dp))
	if err != nil {
		return fmt.Errorf("encode %s data point: %w", d.name, err)
	}

	msg := nats.NewMsg(d.subject)
	msg.Data = data
	if idx := dp.Index(); idx != "" {
		msg.Header.Set(IndexHeader, idx)
	}

	if err := d.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", d.subject, err)
	}
	return nil
}
