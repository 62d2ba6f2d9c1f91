package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zees-dev/zeth/endpoint"
)

const (
	defaultServerURL     = "http://localhost:3000"
	endpointsAPIPath     = "/api/v1/endpoints"
	endpointsCallTimeout = 10 * time.Second
)

var serverURL string

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "Manage the endpoints registered with a running zeth server",
}

var endpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoints, err := newAPIClient(serverURL).list(cmd.Context())
		if err != nil {
			return err
		}
		return printEndpoints(cmd.OutOrStdout(), endpoints)
	},
}

var newEndpoint endpoint.Endpoint
var newEndpointDisabled bool

var endpointsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := newEndpoint
		e.Enabled = !newEndpointDisabled

		id, err := newAPIClient(serverURL).create(cmd.Context(), e)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("registered"), id)
		return nil
	},
}

var endpointsRemoveCmd = &cobra.Command{
	Use:   "remove <endpoint_id>",
	Short: "Remove a registered endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPIClient(serverURL).remove(cmd.Context(), endpoint.ID(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.YellowString("removed"), args[0])
		return nil
	},
}

func init() {
	endpointsCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServerURL, "base URL of the zeth server")

	endpointsAddCmd.Flags().StringVar(&newEndpoint.Name, "name", "", "unique endpoint name")
	endpointsAddCmd.Flags().StringVar(&newEndpoint.RPCHTTP, "rpc-http", "", "HTTP JSON-RPC URL of the node")
	endpointsAddCmd.Flags().StringVar(&newEndpoint.RPCWS, "rpc-ws", "", "websocket JSON-RPC URL of the node")
	endpointsAddCmd.Flags().StringVar(&newEndpoint.ExplorerURL, "explorer-url", "", "block explorer URL")
	endpointsAddCmd.Flags().BoolVar(&newEndpoint.IsDev, "dev", false, "mark the endpoint as a local development node")
	endpointsAddCmd.Flags().BoolVar(&newEndpointDisabled, "disabled", false, "register the endpoint without accepting traffic")
	_ = endpointsAddCmd.MarkFlagRequired("name")
	_ = endpointsAddCmd.MarkFlagRequired("rpc-http")

	endpointsCmd.AddCommand(endpointsListCmd, endpointsAddCmd, endpointsRemoveCmd)
}

// apiClient calls the endpoint management API of a running server.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: endpointsCallTimeout},
	}
}

func (c *apiClient) list(ctx context.Context) ([]endpoint.Endpoint, error) {
	var endpoints []endpoint.Endpoint
	if err := c.do(ctx, http.MethodGet, endpointsAPIPath, nil, http.StatusOK, &endpoints); err != nil {
		return nil, err
	}
	return endpoints, nil
}

func (c *apiClient) create(ctx context.Context, e endpoint.Endpoint) (endpoint.ID, error) {
	var created struct {
		ID endpoint.ID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, endpointsAPIPath, e, http.StatusCreated, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *apiClient) remove(ctx context.Context, id endpoint.ID) error {
	return c.do(ctx, http.MethodDelete, endpointsAPIPath+"/"+string(id), nil, http.StatusNoContent, nil)
}

func (c *apiClient) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printEndpoints(w io.Writer, endpoints []endpoint.Endpoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tTRANSPORTS\tRPC HTTP")
	for _, e := range endpoints {
		status := color.GreenString("enabled")
		if !e.Enabled {
			status = color.RedString("disabled")
		}

		transports := make([]string, 0, 2)
		for _, t := range e.Transports() {
			transports = append(transports, string(t))
		}

		name := e.Name
		if e.IsDev {
			name += " (dev)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, name, status, strings.Join(transports, ","), e.RPCHTTP)
	}
	return tw.Flush()
}
