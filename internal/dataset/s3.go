// internal/dataset/s3.go
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"aidocs-ingest/internal/config"
	"aidocs-ingest/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsCfgLib "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI 는 S3Dataset 이 사용하는 s3.Client 의 부분 집합. (테스트에서 fake 로 교체)
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Dataset
// ------------------------------------------------------------
// data point 1개를 gzip JSONL object 1개로 S3 에 저장한다.
//   - 같은 key 를 다시 쓰지 않는다 (append-only).
//   - SDK retry 는 0 으로 고정, 애플리케이션 retry 도 없음 → 실패는 바로 반환.
type S3Dataset struct {
	client     PutObjectAPI
	name       string
	bucket     string
	instanceID string
}

func NewS3Dataset(client PutObjectAPI, name, bucket, instanceID string) *S3Dataset {
	return &S3Dataset{
		client:     client,
		name:       name,
		bucket:     bucket,
		instanceID: instanceID,
	}
}

// newS3Client 는 리전과 retry 옵션을 적용한 s3.Client 를 만든다.
// PutObject 1회 시도당 timeout 은 HTTP client 에 건다 (요청 context 에 deadline 을 추가하지 않음).
func newS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	awsCfg, err := awsCfgLib.LoadDefaultConfig(ctx, awsCfgLib.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.RetryMaxAttempts = 0
		if cfg.S3Timeout > 0 {
			o.HTTPClient = awshttpClient(cfg.S3Timeout)
		}
	})
	return client, nil
}

// awshttpClient 는 요청 전체 timeout 이 걸린 SDK HTTP client.
func awshttpClient(timeout time.Duration) *awshttp.BuildableClient {
	return awshttp.NewBuildableClient().WithTimeout(timeout).WithTransportOptions(func(tr *http.Transport) {
		tr.MaxIdleConnsPerHost = 32
	})
}

func (d *S3Dataset) Name() string { return d.name }

// WriteDataPoint 는 data point 를 인코딩해 PutObject 1회를 수행한다.
func (d *S3Dataset) WriteDataPoint(ctx context.Context, dp model.DataPoint) error {
	data, err := EncodeJSONLGZ(newRecord(d.name, dp))
	if err != nil {
		return fmt.Errorf("encode %s data point: %w", d.name, err)
	}

	key := BuildKey(d.name, dp.Index(), NewFilename(d.instanceID))

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(d.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(data),
		ContentLength:   aws.Int64(int64(len(data))),
		ContentType:     aws.String("application/x-ndjson"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", d.bucket, key, err)
	}
	return nil
}
