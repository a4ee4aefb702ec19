// internal/model/event.go
package model

// MaxHeaderLen
// RAW 데이터셋에 저장하는 UA / Accept 문자열의 최대 길이 (문자 단위).
const MaxHeaderLen = 500

// 필드가 비었을 때 사용하는 기본값
const (
	DefaultHost    = "unknown"
	DefaultPath    = "/"
	DefaultCountry = "unknown"
)

// TrackRequest
// ------------------------------------------------------------
// /track 로 들어오는 단일 텔레메트리 요청 body.
// 호환성 때문에 필드 이름 alias 를 허용한다.
//   - accept_header | accept
//   - user_agent    | ua
//
// 값 선택은 Accept() / UserAgent() 등 accessor 에서 처리한다.
type TrackRequest struct {
	AcceptHeader string `json:"accept_header"`
	AcceptAlias  string `json:"accept"`
	UserAgentRaw string `json:"user_agent"`
	UAAlias      string `json:"ua"`
	HostRaw      string `json:"host"`
	PathRaw      string `json:"path"`
	CountryRaw   string `json:"country"`
}

// Accept 는 accept_header 를 우선하고, 없으면 accept 를 사용한다.
func (r *TrackRequest) Accept() string {
	return firstNonEmpty(r.AcceptHeader, r.AcceptAlias)
}

// UserAgent 는 user_agent 를 우선하고, 없으면 ua 를 사용한다.
func (r *TrackRequest) UserAgent() string {
	return firstNonEmpty(r.UserAgentRaw, r.UAAlias)
}

func (r *TrackRequest) Host() string    { return firstNonEmpty(r.HostRaw, DefaultHost) }
func (r *TrackRequest) Path() string    { return firstNonEmpty(r.PathRaw, DefaultPath) }
func (r *TrackRequest) Country() string { return firstNonEmpty(r.CountryRaw, DefaultCountry) }

// RawEventRecord
// ------------------------------------------------------------
// 가공하지 않은 관측값. 한 번 기록되면 수정/삭제하지 않는다.
// (보존 기간 / 삭제는 외부 sink 의 책임)
//
// 데이터셋 스키마:
//
//	blob1: host
//	blob2: path
//	blob3: user_agent   (MaxHeaderLen 으로 자름)
//	blob4: accept_header (MaxHeaderLen 으로 자름)
//	blob5: country
//	index1: host
type RawEventRecord struct {
	Host         string `json:"host"`
	Path         string `json:"path"`
	UserAgent    string `json:"user_agent"`
	AcceptHeader string `json:"accept_header"`
	Country      string `json:"country"`
}

// ProcessedVisitRecord
// ------------------------------------------------------------
// RawEventRecord + 분류 결과로 만든 가공 레코드.
//
// 데이터셋 스키마:
//
//	blob1: host
//	blob2: path
//	blob3: category
//	blob4: agent
//	blob5: country
//	double1: is_filtered (0/1)
//	index1: host
type ProcessedVisitRecord struct {
	Host       string `json:"host"`
	Path       string `json:"path"`
	Category   string `json:"category"`
	Agent      string `json:"agent"`
	Country    string `json:"country"`
	IsFiltered int    `json:"is_filtered"`
}

// Truncate 는 s 를 최대 max 개의 문자(rune)로 자른다.
// 멀티바이트 문자가 중간에 잘리지 않도록 rune 단위로 센다.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// DataPoint
// ------------------------------------------------------------
// 외부 분석 엔진의 append-only 데이터셋에 한 번 쓰는 단위.
// blob / double / index 위치가 곧 스키마이므로 순서를 바꾸면 안 된다.
type DataPoint struct {
	Blobs   []string  `json:"blobs,omitempty"`
	Doubles []float64 `json:"doubles,omitempty"`
	Indexes []string  `json:"indexes,omitempty"`
}

// Index 는 파티셔닝에 쓰이는 첫 번째 index 값 (없으면 빈 문자열).
func (p DataPoint) Index() string {
	if len(p.Indexes) == 0 {
		return ""
	}
	return p.Indexes[0]
}

// DataPoint 는 RAW 데이터셋 스키마 순서로 변환한다.
func (r RawEventRecord) DataPoint() DataPoint {
	return DataPoint{
		Blobs:   []string{r.Host, r.Path, r.UserAgent, r.AcceptHeader, r.Country},
		Indexes: []string{r.Host},
	}
}

// DataPoint 는 VISITS 데이터셋 스키마 순서로 변환한다.
func (r ProcessedVisitRecord) DataPoint() DataPoint {
	return DataPoint{
		Blobs:   []string{r.Host, r.Path, r.Category, r.Agent, r.Country},
		Doubles: []float64{float64(r.IsFiltered)},
		Indexes: []string{r.Host},
	}
}
