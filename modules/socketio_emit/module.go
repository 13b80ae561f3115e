// Package socketio_emit provides the `socketio_emit` runner. It connects to a
// socket.io server, emits one event and, when on_event is set, waits for a
// reply event whose payload becomes the step output.
package socketio_emit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/gridgate/internal/hclgrid"
	"github.com/vk/gridgate/internal/registry"
	"github.com/vk/gridgate/internal/runctx"
	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const defaultTimeout = 10 * time.Second

var ErrTimeout = errors.New("socket.io operation timed out")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the runner.
type Input struct {
	URL                string    `hcl:"url"`
	Namespace          *string   `hcl:"namespace,optional"`
	InsecureSkipVerify *bool     `hcl:"insecure_skip_verify,optional"`
	EmitEvent          string    `hcl:"emit_event"`
	EmitData           cty.Value `hcl:"emit_data,optional"`
	OnEvent            *string   `hcl:"on_event,optional"`
	Timeout            *string   `hcl:"timeout,optional"`
}

type opResult struct {
	value cty.Value
	err   error
}

// OnRunSocketIOEmit is the handler for the runner.
func OnRunSocketIOEmit(ctx context.Context, input *Input) (cty.Value, error) {
	logger := runctx.Logger(ctx).With("runner", "socketio_emit", "url", input.URL, "emitEvent", input.EmitEvent)

	timeout := defaultTimeout
	if input.Timeout != nil {
		d, err := time.ParseDuration(*input.Timeout)
		if err != nil || d <= 0 {
			return cty.NilVal, fmt.Errorf("invalid timeout %q", *input.Timeout)
		}
		timeout = d
	}

	data, err := hclgrid.ValueToGo(input.EmitData)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to convert emit_data: %w", err)
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return cty.NilVal, fmt.Errorf("failed to parse URL: %q has no scheme or host", input.URL)
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := connect(opCtx, parsedURL, input)
	if err != nil {
		return cty.NilVal, err
	}
	defer client.Disconnect()
	logger = logger.With("sid", client.Id())

	done := make(chan opResult, 1)
	if input.OnEvent != nil {
		onEvent := *input.OnEvent
		client.Once(types.EventName(onEvent), func(args ...any) {
			logger.Debug("EVENT HANDLER: reply event received", "event", onEvent)
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			val, err := hclgrid.GoToValue(payload)
			if err != nil {
				done <- opResult{err: fmt.Errorf("failed to convert reply data: %w", err)}
				return
			}
			done <- opResult{value: cty.ObjectVal(map[string]cty.Value{"response_data": val})}
		})
	}

	logger.Debug("Emitting event")
	if data == nil {
		client.Emit(input.EmitEvent)
	} else {
		client.Emit(input.EmitEvent, data)
	}

	if input.OnEvent == nil {
		return cty.ObjectVal(map[string]cty.Value{
			"response_data": cty.NullVal(cty.DynamicPseudoType),
		}), nil
	}

	select {
	case <-opCtx.Done():
		return cty.NilVal, fmt.Errorf("%w: no '%s' event after %v", ErrTimeout, *input.OnEvent, timeout)
	case res := <-done:
		if res.err != nil {
			return cty.NilVal, res.err
		}
		logger.Info("Successfully received response event", "event", *input.OnEvent)
		return res.value, nil
	}
}

// connect opens a websocket-only socket.io connection and waits until it is
// established or ctx ends.
func connect(ctx context.Context, parsedURL *url.URL, input *Input) (*socket.Socket, error) {
	logger := runctx.Logger(ctx)

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if input.InsecureSkipVerify != nil && *input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := "/"
	if input.Namespace != nil && *input.Namespace != "" {
		namespace = *input.Namespace
	}

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Debug("Socket.io connection established.", "sid", io.Id())
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("%w: waiting for socket.io connection", ErrTimeout)
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("socketio_emit", &registry.Runner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunSocketIOEmit,
	})
}
