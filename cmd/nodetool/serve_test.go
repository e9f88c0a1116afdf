package main

import (
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/nodeedit/pkg/diagram"
	"github.com/ha1tch/nodeedit/pkg/render"
)

func newTestServer(t *testing.T) (*server, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := newServer(diagram.Seed(), render.DefaultOptions(), logger)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func nodeID(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	for _, n := range decode[[]nodeResp](t, do(t, "GET", ts.URL+"/nodes", "")) {
		if n.Name == name {
			return n.ID.String()
		}
	}
	t.Fatalf("node %s not found", name)
	return ""
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, "GET", ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestNodesCRUD(t *testing.T) {
	_, ts := newTestServer(t)

	nodes := decode[[]nodeResp](t, do(t, "GET", ts.URL+"/nodes", ""))
	require.Len(t, nodes, 3)
	assert.Equal(t, "First", nodes[0].Name)
	assert.Equal(t, 100.0, nodes[0].Width)

	resp := do(t, "POST", ts.URL+"/nodes", `{"name":"Fourth","x":300,"y":40}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decode[nodeResp](t, resp)
	assert.Equal(t, "Fourth", added.Name)
	assert.Equal(t, 300.0, added.X)

	assert.Equal(t, http.StatusBadRequest, do(t, "POST", ts.URL+"/nodes", `{"x":1}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", ts.URL+"/nodes", `{`).StatusCode)

	id := nodeID(t, ts, "Second")
	assert.Equal(t, http.StatusNoContent, do(t, "DELETE", ts.URL+"/nodes/"+id, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, "DELETE", ts.URL+"/nodes/"+id, "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, "DELETE", ts.URL+"/nodes/not-a-uuid", "").StatusCode)

	assert.Len(t, decode[[]nodeResp](t, do(t, "GET", ts.URL+"/nodes", "")), 3)
	assert.Empty(t, decode[[]connectorResp](t, do(t, "GET", ts.URL+"/connectors", "")),
		"removing Second cascades to both connectors")
}

func TestConnect(t *testing.T) {
	_, ts := newTestServer(t)
	first, third := nodeID(t, ts, "First"), nodeID(t, ts, "Third")

	resp := do(t, "POST", ts.URL+"/connectors", `{"from":"`+first+`","to":"`+third+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	c := decode[connectorResp](t, resp)
	assert.Equal(t, "left-of", c.Placement)

	assert.Equal(t, http.StatusBadRequest,
		do(t, "POST", ts.URL+"/connectors", `{"from":"`+first+`","to":"`+first+`"}`).StatusCode)
	assert.Equal(t, http.StatusNotFound,
		do(t, "POST", ts.URL+"/connectors", `{"from":"`+first+`","to":"00000000-0000-0000-0000-000000000000"}`).StatusCode)

	assert.Len(t, decode[[]connectorResp](t, do(t, "GET", ts.URL+"/connectors", "")), 3)
}

func TestPointerGesture(t *testing.T) {
	srv, ts := newTestServer(t)
	first := nodeID(t, ts, "First")

	st := decode[stateResp](t, do(t, "POST", ts.URL+"/pointer/down?x=30&y=30&link=true", ""))
	assert.Equal(t, "linking", st.Mode)

	st = decode[stateResp](t, do(t, "POST", ts.URL+"/pointer/move?x=160&y=150", ""))
	assert.Equal(t, "linking", st.Mode)
	assert.Nil(t, st.Hover, "hover is not tracked while linking")

	st = decode[stateResp](t, do(t, "POST", ts.URL+"/pointer/up?x=160&y=150", ""))
	assert.Equal(t, "idle", st.Mode)
	assert.Len(t, srv.scene.Connectors(), 3)

	// Plain press selects and drags.
	st = decode[stateResp](t, do(t, "POST", ts.URL+"/pointer/down?x=30&y=30", ""))
	assert.Equal(t, "dragging", st.Mode)
	require.NotNil(t, st.Selected)
	assert.Equal(t, first, st.Selected.String())
	do(t, "POST", ts.URL+"/pointer/move?x=40&y=30", "")
	do(t, "POST", ts.URL+"/pointer/up?x=40&y=30", "")
	assert.Equal(t, 30.0, srv.scene.Selected().X)

	st = decode[stateResp](t, do(t, "GET", ts.URL+"/state", ""))
	assert.Equal(t, "idle", st.Mode)

	st = decode[stateResp](t, do(t, "POST", ts.URL+"/pointer/move?x=200&y=150", ""))
	require.NotNil(t, st.Hover)
	assert.Equal(t, nodeID(t, ts, "Third"), st.Hover.String())
}

func TestPointerErrors(t *testing.T) {
	_, ts := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", ts.URL+"/pointer/down?x=a&y=1", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, "POST", ts.URL+"/pointer/down?x=1&y=1&link=maybe", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, "POST", ts.URL+"/pointer/wiggle?x=1&y=1", "").StatusCode)
}

func TestSceneImages(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, "GET", ts.URL+"/scene.svg", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), ">Third</text>")

	for _, backend := range []string{"raster", "vector"} {
		resp = do(t, "GET", ts.URL+"/scene.png?backend="+backend, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, backend)
		img, err := png.Decode(resp.Body)
		require.NoError(t, err, backend)
		assert.Equal(t, 270, img.Bounds().Dx(), backend)
	}

	assert.Equal(t, http.StatusBadRequest, do(t, "GET", ts.URL+"/scene.png?backend=cairo", "").StatusCode)
}

func TestSceneImageTooLarge(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, "POST", ts.URL+"/nodes", `{"name":"Far","x":1e6,"y":1e6}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, http.StatusBadRequest, do(t, "GET", ts.URL+"/scene.png", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, "GET", ts.URL+"/scene.svg", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, "GET", ts.URL+"/health", "").StatusCode, "server keeps serving")
}

func TestPointerRejectsNonFinite(t *testing.T) {
	srv, ts := newTestServer(t)

	do(t, "POST", ts.URL+"/pointer/down?x=30&y=30", "")
	for _, q := range []string{"x=NaN&y=30", "x=30&y=Inf", "x=-Inf&y=30", "x=nan&y=nan"} {
		resp := do(t, "POST", ts.URL+"/pointer/move?"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
	do(t, "POST", ts.URL+"/pointer/up?x=30&y=30", "")

	first := srv.scene.Selected()
	require.NotNil(t, first)
	assert.Equal(t, 20.0, first.X)
	assert.Equal(t, 20.0, first.Y)
}
