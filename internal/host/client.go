package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"dota-review-tracker/internal/constants"

	"github.com/valyala/fasthttp"
)

// BridgeClient posts notifications to a running Bridge, the same way the
// overlay runtime does. reviewctl uses it to replay recorded sessions.
type BridgeClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewBridgeClient(addr string) *BridgeClient {
	return &BridgeClient{
		baseURL: "http://" + addr,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.HostTimeout,
			WriteTimeout:        constants.HostTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type bridgeResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (c *BridgeClient) Health(ctx context.Context) error {
	_, err := doRequest[bridgeResponse](ctx, c, fasthttp.MethodGet, "/health", nil)
	return err
}

func (c *BridgeClient) SendInfo(ctx context.Context, update InfoUpdate) error {
	_, err := doRequest[bridgeResponse](ctx, c, fasthttp.MethodPost, "/info", update)
	return err
}

func (c *BridgeClient) SendEvent(ctx context.Context, event Event) error {
	_, err := doRequest[bridgeResponse](ctx, c, fasthttp.MethodPost, "/event", event)
	return err
}

// Step is one line of a replay script: either an info update or an event,
// optionally preceded by a pause.
type Step struct {
	DelayMS int         `json:"delay_ms,omitempty"`
	Info    *InfoUpdate `json:"info,omitempty"`
	Event   *Event      `json:"event,omitempty"`
}

// ReadScript decodes a stream of JSON steps.
func ReadScript(r io.Reader) ([]Step, error) {
	dec := json.NewDecoder(r)
	var steps []Step
	for {
		var step Step
		err := dec.Decode(&step)
		if errors.Is(err, io.EOF) {
			return steps, nil
		}
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", len(steps)+1, err)
		}
		if (step.Info == nil) == (step.Event == nil) {
			return nil, fmt.Errorf("step %d: exactly one of info or event is required", len(steps)+1)
		}
		steps = append(steps, step)
	}
}

// Replay sends steps in order and stops at the first rejected one.
func (c *BridgeClient) Replay(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if step.DelayMS > 0 {
			select {
			case <-time.After(time.Duration(step.DelayMS) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var err error
		if step.Info != nil {
			err = c.SendInfo(ctx, *step.Info)
		} else {
			err = c.SendEvent(ctx, *step.Event)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func doRequest[T any](ctx context.Context, c *BridgeClient, method, path string, body any) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("bridge returned %d: %w", resp.StatusCode(), err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK && code != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("bridge error: %d: %s", code, resp.Body())
	}
	return &result, nil
}
