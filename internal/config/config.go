// internal/config/config.go
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// 지원하는 sink backend
const (
	SinkLog  = "log"
	SinkS3   = "s3"
	SinkNATS = "nats"
)

// Config
//
// 서비스 실행 시 필요한 모든 설정 값을 보관하는 구조체.
// 모든 값은 프로세스 시작 시점에 Load() 에 의해 초기화되며,
// 이후에는 변경되지 않는 불변(read-only) 설정들이다.
//
// 각 필드의 mapstructure 키는 그대로 환경변수 이름(대문자)과 대응된다.
// 예: http_addr ↔ HTTP_ADDR
type Config struct {

	// ---------------------------
	// 서버 식별자 / 네트워크
	// ---------------------------

	ServiceName string `mapstructure:"service_name"` // 로그에 붙는 서비스 이름
	InstanceID  string `mapstructure:"instance_id"`  // 프로세스 고유 ID (기본: hostname, 실패 시 랜덤 hex)
	HTTPAddr    string `mapstructure:"http_addr"`    // HTTP 서버 bind 주소 (예: ":8080")

	MaxBodySize  int64         `mapstructure:"max_body_size"` // /track body 최대 크기 (바이트)
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// ---------------------------
	// 로깅
	// ---------------------------

	LogLevel   string `mapstructure:"log_level"`
	LogPretty  bool   `mapstructure:"log_pretty"`
	LogSampleN uint32 `mapstructure:"log_sample_n"` // Debug/Info 를 N 개 중 1개만 기록 (1 이하면 샘플링 없음)

	// ---------------------------
	// Query Gateway (원격 분석 엔진 SQL API)
	// ---------------------------
	// 두 값 중 하나라도 비어 있으면 /query 만 비활성화된다.
	// ingestion 엔드포인트는 영향 없음.

	CFAccountID  string        `mapstructure:"cf_account_id"`
	CFAPIToken   string        `mapstructure:"cf_api_token"`
	CFAPIBaseURL string        `mapstructure:"cf_api_base_url"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`

	// ---------------------------
	// 데이터셋 sink
	// ---------------------------

	SinkBackend   string `mapstructure:"sink_backend"` // log | s3 | nats
	RawDataset    string `mapstructure:"raw_dataset"`
	VisitsDataset string `mapstructure:"visits_dataset"`

	// S3 backend
	AWSRegion  string        `mapstructure:"aws_region"`
	SinkBucket string        `mapstructure:"sink_bucket"`
	S3Timeout  time.Duration `mapstructure:"s3_timeout"` // PutObject 1회 호출당 timeout

	// NATS backend
	NATSURL           string `mapstructure:"nats_url"`
	NATSSubjectPrefix string `mapstructure:"nats_subject_prefix"`
}

// Load
//
// 기본값 → (선택) 설정 파일 → 환경변수 순서로 덮어쓰며 Config 를 만든다.
// configPath 가 비어 있으면 설정 파일 없이 기본값 + 환경변수만 사용한다.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = fallbackInstanceID()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "aidocs-ingest")
	v.SetDefault("instance_id", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("max_body_size", 16*1024)
	v.SetDefault("read_timeout", "8s")
	v.SetDefault("write_timeout", "35s")
	v.SetDefault("idle_timeout", "60s")
	v.SetDefault("cors_allowed_origins", []string{"*"})

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("log_sample_n", 0)

	v.SetDefault("cf_account_id", "")
	v.SetDefault("cf_api_token", "")
	v.SetDefault("cf_api_base_url", "https://api.cloudflare.com/client/v4")
	v.SetDefault("query_timeout", "30s")

	v.SetDefault("sink_backend", SinkLog)
	v.SetDefault("raw_dataset", "ai_docs_raw_events")
	v.SetDefault("visits_dataset", "ai_docs_visits")

	v.SetDefault("aws_region", "")
	v.SetDefault("sink_bucket", "")
	v.SetDefault("s3_timeout", "5s")

	v.SetDefault("nats_url", "")
	v.SetDefault("nats_subject_prefix", "aidocs")
}

// Validate
//
// 선택된 sink backend 의 필수값이 빠졌으면 에러 (fail-fast).
// Query 자격증명 누락은 여기서 에러로 보지 않는다. /query 요청 시점에 500 으로 응답한다.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr must not be empty"))
	}
	if c.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("max_body_size must be positive, got %d", c.MaxBodySize))
	}
	if c.RawDataset == "" || c.VisitsDataset == "" {
		errs = append(errs, errors.New("raw_dataset and visits_dataset must not be empty"))
	}

	switch c.SinkBackend {
	case SinkLog:
	case SinkS3:
		if c.AWSRegion == "" {
			errs = append(errs, errors.New("missing required env: AWS_REGION (sink_backend=s3)"))
		}
		if c.SinkBucket == "" {
			errs = append(errs, errors.New("missing required env: SINK_BUCKET (sink_backend=s3)"))
		}
	case SinkNATS:
		if c.NATSURL == "" {
			errs = append(errs, errors.New("missing required env: NATS_URL (sink_backend=nats)"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown sink_backend %q (supported: log, s3, nats)", c.SinkBackend))
	}

	return errors.Join(errs...)
}

// QueryEnabled 는 /query 에 필요한 두 자격증명이 모두 있는지 반환한다.
func (c Config) QueryEnabled() bool {
	return c.CFAccountID != "" && c.CFAPIToken != ""
}

// fallbackInstanceID
//
// 이 인스턴스를 식별하는 고유 값.
//   - 기본: hostname
//   - fallback: 12자리 랜덤 hex
func fallbackInstanceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	var b [6]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
