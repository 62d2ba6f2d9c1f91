package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/zees-dev/zeth/endpoint"
)

func Test_apiClient(t *testing.T) {
	c := require.New(t)

	var (
		created     endpoint.Endpoint
		contentType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == endpointsAPIPath:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"e1","name":"Sepolia","enabled":true,"rpc_http":"https://rpc.sepolia.org"}]`))
		case r.Method == http.MethodPost && r.URL.Path == endpointsAPIPath:
			contentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&created)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"new-id"}`))
		case r.Method == http.MethodDelete && r.URL.Path == endpointsAPIPath+"/e1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"endpoint not found"}`))
		}
	}))
	t.Cleanup(server.Close)

	client := newAPIClient(server.URL + "/")
	ctx := context.Background()

	endpoints, err := client.list(ctx)
	c.NoError(err)
	c.Len(endpoints, 1)
	c.Equal(endpoint.ID("e1"), endpoints[0].ID)

	id, err := client.create(ctx, endpoint.Endpoint{Name: "Anvil", RPCHTTP: "http://127.0.0.1:8545", Enabled: true})
	c.NoError(err)
	c.Equal(endpoint.ID("new-id"), id)
	c.Equal("Anvil", created.Name)
	c.Equal("application/json", contentType)

	c.NoError(client.remove(ctx, "e1"))

	err = client.remove(ctx, "missing")
	c.ErrorContains(err, "endpoint not found")
	c.ErrorContains(err, "status 404")
}

func Test_printEndpoints(t *testing.T) {
	c := require.New(t)
	color.NoColor = true

	var out bytes.Buffer
	err := printEndpoints(&out, []endpoint.Endpoint{
		{ID: "e1", Name: "Sepolia", Enabled: true, RPCHTTP: "https://rpc.sepolia.org", RPCWS: "wss://rpc.sepolia.org", DateAdded: time.Now()},
		{ID: "e2", Name: "Anvil", IsDev: true, RPCHTTP: "http://127.0.0.1:8545"},
	})
	c.NoError(err)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	c.Len(lines, 3)
	c.Contains(string(lines[1]), "enabled")
	c.Contains(string(lines[1]), "http,ws")
	c.Contains(string(lines[2]), "Anvil (dev)")
	c.Contains(string(lines[2]), "disabled")
}

func Test_getConfigPath(t *testing.T) {
	path, err := getConfigPath("/etc/zeth/config.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/zeth/config.yaml", path)
}
