package viewmodel

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sitedash/lib/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockGetter struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	queries   map[string]url.Values
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func NewMockGetter() *MockGetter {
	return &MockGetter{
		responses: map[string]string{},
		failures:  map[string]error{},
		queries:   map[string]url.Values{},
	}
}

func (m *MockGetter) GetCollection(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxFlight.Load()
		if current <= seen || m.maxFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[path] = query
	if err, ok := m.failures[path]; ok {
		return nil, err
	}
	return json.RawMessage(m.responses[path]), nil
}

func TestFetcher_PartialFailureDoesNotFailBatch(t *testing.T) {
	//Arrange
	getter := NewMockGetter()
	getter.failures["/projects/"] = errors.New("connection refused")
	getter.responses["/expenses/"] = `[{"id":1,"amount":100},{"id":2,"amount":250.5}]`
	fetcher := NewFetcher(getter, 2, logrus.New())

	//Act
	batch := fetcher.Fetch(context.Background(), 1,
		Resource{Name: "projects", Path: "/projects/"},
		Resource{Name: "expenses", Path: "/expenses/"},
	)

	//Assert
	projects := Items[models.Project](batch, "projects")
	expenses := Items[models.Expense](batch, "expenses")
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
	require.Len(t, expenses, 2)
	assert.True(t, dec("350.5").Equal(TotalExpenses(expenses)))
	assert.Equal(t, []string{"projects"}, batch.Failed())
	assert.Error(t, batch.Err("projects"))
	assert.NoError(t, batch.Err("expenses"))
	assert.Equal(t, "Some data could not be loaded: projects", batch.Notice())
}

func TestFetcher_AllLoadedHasNoNotice(t *testing.T) {
	getter := NewMockGetter()
	getter.responses["/users/"] = `[]`
	getter.responses["/vendors/"] = `null`

	batch := NewFetcher(getter, 0, logrus.New()).Fetch(context.Background(), 4,
		Resource{Name: "users", Path: "/users/"},
		Resource{Name: "vendors", Path: "/vendors/"},
	)

	assert.Equal(t, uint64(4), batch.Seq)
	assert.Empty(t, batch.Notice())
	assert.NotNil(t, Items[models.User](batch, "users"))
	assert.NotNil(t, Items[models.Vendor](batch, "vendors"))
}

func TestFetcher_DecodeFailureIsRecorded(t *testing.T) {
	getter := NewMockGetter()
	getter.responses["/material-requests/"] = `{"unexpected":"object"}`

	batch := NewFetcher(getter, 1, logrus.New()).Fetch(context.Background(), 1,
		Resource{Name: "material_requests", Path: "/material-requests/"},
	)

	assert.Empty(t, Items[models.MaterialRequest](batch, "material_requests"))
	assert.Equal(t, "Some data could not be loaded: material requests", batch.Notice())
}

func TestFetcher_RespectsConcurrencyLimit(t *testing.T) {
	getter := NewMockGetter()
	getter.delay = 20 * time.Millisecond
	var resources []Resource
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		getter.responses["/"+name+"/"] = `[]`
		resources = append(resources, Resource{Name: name, Path: "/" + name + "/"})
	}

	batch := NewFetcher(getter, 2, logrus.New()).Fetch(context.Background(), 1, resources...)

	assert.Empty(t, batch.Failed())
	assert.LessOrEqual(t, getter.maxFlight.Load(), int32(2))
}

func TestResource_Filtered(t *testing.T) {
	base := Resource{Name: "expenses", Path: "/expenses/", Query: url.Values{"ordering": {"-date"}}}

	filtered := base.Filtered("project", 3)

	assert.Equal(t, "3", filtered.Query.Get("project"))
	assert.Equal(t, "-date", filtered.Query.Get("ordering"))
	assert.Empty(t, base.Query.Get("project"), "original descriptor must not change")
}

func TestItem_SingleRecord(t *testing.T) {
	batch := NewBatch(1, map[string]Result{
		"project": {Data: json.RawMessage(`{"id":3,"name":"Tower A","total_budget":1000000}`)},
		"missing": {Err: errors.New("404")},
	})

	project, ok := Item[models.Project](batch, "project")
	require.True(t, ok)
	assert.Equal(t, "Tower A", project.Name)

	_, ok = Item[models.Project](batch, "missing")
	assert.False(t, ok)
	assert.Error(t, batch.Err("unknown"))
}
