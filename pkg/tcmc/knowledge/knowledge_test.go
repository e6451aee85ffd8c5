package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
	"github.com/tcmc-hq/tcmc-client/pkg/tcmc"
)

type call struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, c call)) (*Client, *[]call) {
	t.Helper()
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		calls = append(calls, c)
		w.Header().Set("Content-Type", "application/json")
		handler(w, c)
	}))
	t.Cleanup(server.Close)

	d := httpclient.New(httpclient.Config{BaseURL: server.URL}, nil)
	return NewClient(d), &calls
}

func ok(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": "", "data": data})
}

func TestGetAllNodes(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ call) {
		ok(w, []Node{{ID: 1, Name: "人参"}, {ID: 2, Name: "黄芪"}})
	})

	nodes, err := c.GetAllNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "黄芪", nodes[1].Name)
	assert.Equal(t, "/tcmc/knowledge/node/list", (*calls)[0].path)
}

func TestGetNodeByIDSendsQuery(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ call) {
		ok(w, Node{ID: 9, Name: "当归"})
	})

	n, err := c.GetNodeByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n.ID)

	got := (*calls)[0]
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/tcmc/knowledge/node/getById", got.path)
	assert.Equal(t, "id=9", got.query)
}

func TestUpdateNodeUsesPut(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ call) { ok(w, true) })

	require.NoError(t, c.UpdateNode(context.Background(), NodeUpdateReq{ID: 3, NewName: "白术"}))

	got := (*calls)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/tcmc/knowledge/node/update", got.path)
	assert.Equal(t, "白术", got.body["newName"])
	assert.EqualValues(t, 3, got.body["id"])
}

func TestAddRelationshipPostsBody(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ call) { ok(w, nil) })

	err := c.AddRelationship(context.Background(), Relationship{SourceName: "a", TargetName: "b", Type: "treats"})
	require.NoError(t, err)

	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/tcmc/knowledge/relationship/add", got.path)
	assert.Equal(t, map[string]any{"sourceName": "a", "targetName": "b", "type": "treats"}, got.body)
}

func TestAddRelationshipValidates(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ call) { ok(w, nil) })

	assert.Error(t, c.AddRelationship(context.Background(), Relationship{SourceName: "a"}))
	assert.Empty(t, *calls)
}

func TestDeleteRelationshipUsesGet(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ call) { ok(w, true) })

	require.NoError(t, c.DeleteRelationship(context.Background(), "a", "b", "treats"))

	got := (*calls)[0]
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/tcmc/knowledge/relationship/delete", got.path)
	assert.Equal(t, "sourceName=a&targetName=b&type=treats", got.query)
}

func TestAPIErrorSurfaces(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ call) {
		_, _ = w.Write([]byte(`{"code":500,"msg":"neo4j unavailable"}`))
	})

	_, err := c.GetRelationshipType(context.Background(), "a", "b")
	var apiErr *tcmc.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "neo4j unavailable", apiErr.Msg)
}

func TestSnapshot(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, c call) {
		switch c.path {
		case "/tcmc/knowledge/node/list":
			ok(w, []Node{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
		case "/tcmc/knowledge/relationship/list":
			ok(w, []Relationship{{SourceName: "a", TargetName: "b", Type: "pairs"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	g, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, "pairs", g.Relationships[0].Type)
}
