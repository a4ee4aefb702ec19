package pool

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// ---------------------------------------------------------------
// 요청마다 생기는 임시 메모리(요청 body, data point 인코딩 버퍼,
// gzip writer)를 재사용하기 위한 풀 모음.
// ---------------------------------------------------------------

const (
	// 대부분의 /track body 는 1KB 미만
	bodyInitCap = 2 * 1024

	// data point 하나를 gzip JSONL 로 인코딩한 결과 버퍼
	bufferInitCap = 1024

	// 이보다 커진 버퍼는 풀에 돌려놓지 않는다 (큰 요청 뒤 메모리를 계속 잡지 않도록)
	MaxBufferCap = 64 * 1024
)

var (
	bodyPool = sync.Pool{
		New: func() any { return bytes.NewBuffer(make([]byte, 0, bodyInitCap)) },
	}

	bufferPool = sync.Pool{
		New: func() any { return bytes.NewBuffer(make([]byte, 0, bufferInitCap)) },
	}

	// BestSpeed: 요청 경로에서 바로 압축하므로 속도 우선
	gzipPool = sync.Pool{
		New: func() any {
			w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
			return w
		},
	}
)

// GetBody 는 비어 있는 body 버퍼를 꺼낸다.
func GetBody() *bytes.Buffer {
	buf := bodyPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBody 는 maxCap 이하인 버퍼만 풀로 돌려놓는다.
func PutBody(buf *bytes.Buffer, maxCap int64) {
	if int64(buf.Cap()) <= maxCap {
		buf.Reset()
		bodyPool.Put(buf)
	}
}

// GetBuffer 는 비어 있는 인코딩 버퍼를 꺼낸다.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer 는 MaxBufferCap 이하인 버퍼만 풀로 돌려놓는다.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= MaxBufferCap {
		buf.Reset()
		bufferPool.Put(buf)
	}
}

// GetGzip 은 w 로 reset 된 gzip.Writer 를 꺼낸다.
func GetGzip(w io.Writer) *gzip.Writer {
	gz := gzipPool.Get().(*gzip.Writer)
	gz.Reset(w)
	return gz
}

// PutGzip 은 gzip.Writer 를 풀로 돌려놓는다. 호출 전에 Close 해야 한다.
func PutGzip(gz *gzip.Writer) {
	gz.Reset(io.Discard)
	gzipPool.Put(gz)
}
