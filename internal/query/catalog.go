// internal/query/catalog.go
package query

// DefaultQuery 는 q 파라미터가 없을 때 사용하는 쿼리 이름.
const DefaultQuery = "default"

const (
	last7Days  = "timestamp > NOW() - INTERVAL '7' DAY"
	last1Day   = "timestamp > NOW() - INTERVAL '1' DAY"
	notFilter  = "double1 = 0"
	codingOnly = "blob3 = 'coding-agent'"
	visitsSum  = "SUM(_sample_interval) as visits"
	byVisits   = "visits DESC"
	byNewest   = "timestamp DESC"
)

// Catalog
// ------------------------------------------------------------
// 허용된 쿼리 이름 → Template 고정 목록.
// 프로세스 시작 시 한 번 만들고 이후 변경하지 않는다 (사용자 확장 불가).
type Catalog struct {
	names     []string
	templates map[string]Template
}

// NewCatalog 는 VISITS / RAW 데이터셋 이름으로 쿼리 목록을 만든다.
func NewCatalog(visitsTable, rawTable string) *Catalog {
	templates := []Template{
		{
			Name:    DefaultQuery,
			Select:  []string{"blob1 as host", "blob3 as category", "blob4 as agent", visitsSum},
			From:    visitsTable,
			Where:   []string{last7Days, notFilter},
			GroupBy: []string{"host", "category", "agent"},
			OrderBy: byVisits,
			Limit:   100,
		},
		{
			Name:    "sites",
			Select:  []string{"blob1 as host", "blob3 as category", visitsSum},
			From:    visitsTable,
			Where:   []string{last7Days, notFilter},
			GroupBy: []string{"host", "category"},
			OrderBy: byVisits,
		},
		{
			Name:    "agents",
			Select:  []string{"blob4 as agent", visitsSum},
			From:    visitsTable,
			Where:   []string{last7Days, notFilter, codingOnly},
			GroupBy: []string{"agent"},
			OrderBy: byVisits,
		},
		{
			Name:    "all-agents",
			Select:  []string{"blob3 as category", "blob4 as agent", visitsSum},
			From:    visitsTable,
			Where:   []string{last7Days, notFilter},
			GroupBy: []string{"category", "agent"},
			OrderBy: byVisits,
		},
		{
			Name:    "pages",
			Select:  []string{"blob1 as host", "blob2 as path", "blob4 as agent", visitsSum},
			From:    visitsTable,
			Where:   []string{last7Days, codingOnly, notFilter},
			GroupBy: []string{"host", "path", "agent"},
			OrderBy: byVisits,
			Limit:   50,
		},
		{
			Name:    "feed",
			Select:  []string{"timestamp", "blob1 as host", "blob2 as path", "blob3 as category", "blob4 as agent"},
			From:    visitsTable,
			Where:   []string{last1Day, notFilter},
			OrderBy: byNewest,
			Limit:   50,
		},
		{
			Name:    "raw",
			Select:  []string{"timestamp", "blob1 as host", "blob2 as path", "blob3 as user_agent", "blob4 as accept_header"},
			From:    rawTable,
			Where:   []string{last1Day},
			OrderBy: byNewest,
			Limit:   100,
		},
	}

	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		c.names = append(c.names, t.Name)
		c.templates[t.Name] = t
	}
	return c
}

// Names 는 허용된 쿼리 이름을 카탈로그 순서대로 반환한다 (복사본).
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Lookup 은 이름에 해당하는 Template 을 찾는다.
func (c *Catalog) Lookup(name string) (Template, bool) {
	t, ok := c.templates[name]
	return t, ok
}

// Render 는 name 의 쿼리를 host 조건과 함께 렌더링한다.
// 모르는 이름이면 *UnknownQueryError.
func (c *Catalog) Render(name, host string) (string, error) {
	t, ok := c.Lookup(name)
	if !ok {
		return "", &UnknownQueryError{Name: name, Allowed: c.Names()}
	}
	return t.Render(host), nil
}
