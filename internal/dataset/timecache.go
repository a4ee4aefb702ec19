// internal/dataset/timecache.go
package dataset

import (
	"sync/atomic"
	"time"
)

//
// timecache.go
// ------------------------------------------------------------
// 현재 UTC epoch seconds 와 날짜/시간 파티션 문자열을 1초 단위로 캐싱한다.
// data point 마다 time.Now() + Format 을 반복하지 않기 위함.
//
// 사용처:
//   - Record.Ts
//   - S3 key 파티션 (dt=YYYY-MM-DD / hr=HH, UTC 기준)
//   - 파일명 prefix (<unix>_...)
// ------------------------------------------------------------

type snapshot struct {
	unix int64
	dt   string
	hr   string
}

var current atomic.Pointer[snapshot]

func init() {
	refresh(time.Now())

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for now := range ticker.C {
			refresh(now)
		}
	}()
}

// 세 값이 서로 다른 초를 가리키지 않도록 한 번에 교체한다.
func refresh(now time.Time) {
	utc := now.UTC()
	current.Store(&snapshot{
		unix: utc.Unix(),
		dt:   utc.Format("2006-01-02"),
		hr:   utc.Format("15"),
	})
}

// Unix returns current UTC epoch seconds (cached, 1-second precision).
func Unix() int64 {
	return current.Load().unix
}

// Partition returns the cached "YYYY-MM-DD" and "HH" (UTC).
func Partition() (dt, hr string) {
	s := current.Load()
	return s.dt, s.hr
}
