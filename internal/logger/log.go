// internal/logger/log.go
package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"aidocs-ingest/internal/config"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init
//
// 프로세스 시작 시 한 번 호출한다.
// New(cfg) 로 만든 로거를 전역 로거(zlog.Logger)로 교체하고,
// 표준 라이브러리 log 패키지 출력도 zerolog 로 돌린다.
//
// 사용 예:
//
//	logger.Init(cfg)
//	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
func Init(cfg config.Config) {
	l := New(cfg, os.Stdout)

	zlog.Logger = l

	stdlog.SetFlags(0) // 시간은 zerolog 가 찍는다
	stdlog.SetOutput(l)
}

// New
//
// cfg 기반 zerolog.Logger 를 만든다. out 은 테스트에서 교체할 수 있도록 인자로 받는다.
//
//   - LOG_PRETTY=true  : ConsoleWriter (로컬 개발용)
//   - LOG_PRETTY=false : JSON 한 줄 (수집 시스템용)
//   - 모든 로그에 service / instance 필드를 붙인다.
//   - LOG_SAMPLE_N > 1 이면 Debug/Info 만 1/N 샘플링. Warn/Error 는 전부 기록.
func New(cfg config.Config, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err == nil && l != zerolog.NoLevel {
		level = l
	}
	zerolog.SetGlobalLevel(level)

	w := out
	if cfg.LogPretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("instance", cfg.InstanceID).
		Logger()

	if cfg.LogSampleN > 1 {
		l = l.Sample(&zerolog.LevelSampler{
			DebugSampler: &zerolog.BasicSampler{N: cfg.LogSampleN},
			InfoSampler:  &zerolog.BasicSampler{N: cfg.LogSampleN},
		})
	}

	return l
}
