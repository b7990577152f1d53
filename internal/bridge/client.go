package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/HandyWote/Translater/internal/output"
	"github.com/HandyWote/Translater/internal/pipeline"
	"github.com/HandyWote/Translater/internal/settings"
	"github.com/HandyWote/Translater/internal/uistate"
)

// Client calls a running bridge.
type Client struct {
	conn   grpc.ClientConnInterface
	closer func() error
}

// Dial connects to the bridge socket at path and waits until the connection
// is ready or timeout elapses.
func Dial(ctx context.Context, path string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(
		"unix://"+path,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %q: %w", path, err)
	}

	readyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn.Connect()
	if err := waitForReady(readyCtx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wait for bridge readiness: %w", err)
	}
	return &Client{conn: conn, closer: conn.Close}, nil
}

// NewClient wraps an existing connection. Close is a no-op for connections
// the caller owns.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Close releases the connection opened by Dial.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}

// Health checks that the bridge service reports SERVING.
func (c *Client) Health(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("bridge is %s", resp.GetStatus())
	}
	return nil
}

// GetSettings returns the stored settings.
func (c *Client) GetSettings(ctx context.Context) (settings.Settings, error) {
	out, err := c.call(ctx, MethodGetSettings, nil)
	if err != nil {
		return settings.Settings{}, err
	}
	return settings.Normalize(out.AsMap()), nil
}

// SaveSettings persists record and returns the stored canonical form.
func (c *Client) SaveSettings(ctx context.Context, record settings.Record) (settings.Settings, error) {
	out, err := c.call(ctx, MethodSaveSettings, record)
	if err != nil {
		return settings.Settings{}, err
	}
	return settings.Normalize(out.AsMap()), nil
}

// NormalizeSettings normalizes record on the bridge without persisting.
func (c *Client) NormalizeSettings(ctx context.Context, record settings.Record) (settings.Settings, error) {
	out, err := c.call(ctx, MethodNormalizeSettings, record)
	if err != nil {
		return settings.Settings{}, err
	}
	return settings.Normalize(out.AsMap()), nil
}

// ComposePrompts resolves prompts for record, or for stored settings when
// record is nil.
func (c *Client) ComposePrompts(ctx context.Context, record settings.Record) (Prompts, error) {
	var prompts Prompts
	err := c.callInto(ctx, MethodComposePrompts, withSettings(map[string]any{}, record), &prompts)
	return prompts, err
}

// PlanRequest returns the backend plan for src.
func (c *Client) PlanRequest(ctx context.Context, src pipeline.Source, record settings.Record) (pipeline.Plan, error) {
	var plan pipeline.Plan
	req := withSettings(map[string]any{"source": string(src)}, record)
	err := c.callInto(ctx, MethodPlanRequest, req, &plan)
	return plan, err
}

// DisplayName resolves a language code to its product label.
func (c *Client) DisplayName(ctx context.Context, code string) (string, error) {
	out, err := c.call(ctx, MethodDisplayName, map[string]any{"code": code})
	if err != nil {
		return "", err
	}
	return stringField(out, "name"), nil
}

// Deliver applies clipboard and toast effects for translated.
func (c *Client) Deliver(ctx context.Context, translated string) (output.Delivery, error) {
	var delivery output.Delivery
	err := c.callInto(ctx, MethodDeliver, map[string]any{"text": translated}, &delivery)
	return delivery, err
}

// Sections returns the section state snapshot.
func (c *Client) Sections(ctx context.Context) (uistate.Snapshot, error) {
	var snap uistate.Snapshot
	err := c.callInto(ctx, MethodSections, nil, &snap)
	return snap, err
}

// ToggleSection flips section and returns the new snapshot.
func (c *Client) ToggleSection(ctx context.Context, section uistate.Section) (uistate.Snapshot, error) {
	var snap uistate.Snapshot
	err := c.callInto(ctx, MethodToggleSection, map[string]any{"section": string(section)}, &snap)
	return snap, err
}

// ActivateCategory switches the active category.
func (c *Client) ActivateCategory(ctx context.Context, name uistate.Category) (uistate.Snapshot, error) {
	var snap uistate.Snapshot
	err := c.callInto(ctx, MethodActivateCategory, map[string]any{"category": string(name)}, &snap)
	return snap, err
}

func (c *Client) call(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return out, nil
}

func (c *Client) callInto(ctx context.Context, method string, req map[string]any, target any) error {
	out, err := c.call(ctx, method, req)
	if err != nil {
		return err
	}
	return decode(out, target)
}

func withSettings(req map[string]any, record settings.Record) map[string]any {
	if record != nil {
		req["settings"] = record
	}
	return req
}

// waitForReady blocks until the connection is Ready or fails.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("grpc readiness wait timed out in state %s", state.String())
		}
	}
}
