package pool

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBody_IsEmpty(t *testing.T) {
	buf := GetBody()
	buf.WriteString("leftover")
	PutBody(buf, 1<<20)

	again := GetBody()
	assert.Zero(t, again.Len())
}

func TestGzipRoundTrip(t *testing.T) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	gz := GetGzip(buf)
	_, err := gz.Write([]byte(`{"a":1}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	PutGzip(gz)

	r, err := gzip.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`+"\n", string(out))
}

func TestPutBuffer_DropsOversized(t *testing.T) {
	big := bytes.NewBuffer(make([]byte, 0, MaxBufferCap+1))
	// 패닉 없이 무시되어야 한다
	PutBuffer(big)
	assert.Zero(t, GetBuffer().Len())
}
