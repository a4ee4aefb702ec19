package dataset

import (
	"aidocs-ingest/internal/pool"

	json "github.com/goccy/go-json"
)

// EncodeJSON 은 Record 를 JSON 한 줄(끝에 개행 없음)로 직렬화한다.
// NATS / log backend 에서 사용.
func EncodeJSON(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

// EncodeJSONLGZ
// ------------------------------------------------------------
// Record 1개를 JSONL 한 줄로 인코딩한 뒤 gzip 압축해 반환한다. (S3 backend)
//
// 버퍼 / gzip.Writer 는 pool 에서 가져오며,
// 결과는 호출자가 소유하는 새 slice 로 복사해서 돌려준다.
// (pool 버퍼를 그대로 넘기면 다음 요청이 덮어쓴다)
func EncodeJSONLGZ(rec Record) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	gz := pool.GetGzip(buf)
	defer pool.PutGzip(gz)

	// Encoder.Encode 는 끝에 '\n' 을 붙이므로 그대로 JSONL 한 줄이 된다
	if err := json.NewEncoder(gz).Encode(rec); err != nil {
		_ = gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}
