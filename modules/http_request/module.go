// Package http_request provides the `http_request` runner, which performs a
// single HTTP request and exposes the status code, headers and body.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vk/gridgate/internal/registry"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client performs the requests. Defaults to a shared http.Client.
	Client *http.Client
}

// defaultClient is shared by all executions to reuse TCP connections.
var defaultClient = &http.Client{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	URL            string            `hcl:"url"`
	Method         *string           `hcl:"method,optional"`
	Headers        map[string]string `hcl:"headers,optional"`
	Body           *string           `hcl:"body,optional"`
	ExpectedStatus *int              `hcl:"expected_status,optional"`
}

// OnRunHttpRequest is the handler for the 'http_request' runner.
func (m *Module) OnRunHttpRequest(ctx context.Context, input *Input) (cty.Value, error) {
	method := http.MethodGet
	if input.Method != nil && *input.Method != "" {
		method = strings.ToUpper(*input.Method)
	}
	logger := runctx.Logger(ctx).With("runner", "http_request", "method", method, "url", input.URL)
	logger.Info("Making HTTP request")

	var reqBody io.Reader
	if input.Body != nil {
		reqBody = strings.NewReader(*input.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, input.URL, reqBody)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	client := m.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to read response body: %w", err)
	}

	if input.ExpectedStatus != nil && resp.StatusCode != *input.ExpectedStatus {
		return cty.NilVal, fmt.Errorf("unexpected status code %d, expected %d", resp.StatusCode, *input.ExpectedStatus)
	}

	headers := cty.MapValEmpty(cty.String)
	if len(resp.Header) > 0 {
		hv := make(map[string]cty.Value, len(resp.Header))
		for k := range resp.Header {
			hv[k] = cty.StringVal(resp.Header.Get(k))
		}
		headers = cty.MapVal(hv)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"status_code": cty.NumberIntVal(int64(resp.StatusCode)),
		"headers":     headers,
		"body":        cty.StringVal(string(bodyBytes)),
	}), nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("http_request", &registry.Runner{
		NewInput: func() any { return new(Input) },
		Fn:       m.OnRunHttpRequest,
	})
}
