// internal/dataset/key.go
package dataset

import (
	"fmt"
	"net/url"
	"sync/atomic"
)

// key.go
// ------------------------------------------------------------
// S3 object 이름 규칙.
//
//	<dataset>/dt=<YYYY-MM-DD>/hr=<HH>/index=<host>/<unix>_<instance>_<counter>.jsonl.gz
//
// index 파티션은 외부 엔진이 host 로 필터링/파티셔닝할 수 있도록
// data point 의 첫 번째 index 값(host)을 사용한다.
// 파일명은 정렬하면 곧 시간순이다.
// ------------------------------------------------------------

var globalCounter uint64

// nextCounter 는 goroutine 간 충돌 없는 순번 (1e6 에서 wrap-around).
func nextCounter() uint64 {
	return atomic.AddUint64(&globalCounter, 1) % 1_000_000
}

// NewFilename 은 <unix>_<instance>_<counter>.jsonl.gz 를 만든다.
func NewFilename(instanceID string) string {
	return fmt.Sprintf("%d_%s_%06d.jsonl.gz", Unix(), instanceID, nextCounter())
}

// BuildKey 는 dataset / 시간 파티션 / index 파티션을 붙인 object key 를 만든다.
// index 는 사용자 입력(host)이므로 path segment 로 escape 한다.
func BuildKey(dataset, index, filename string) string {
	if index == "" {
		index = "_"
	}
	dt, hr := Partition()
	return fmt.Sprintf("%s/dt=%s/hr=%s/index=%s/%s", dataset, dt, hr, url.PathEscape(index), filename)
}
