package server

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Client calls a running ReviewTracker over the connect protocol.
type Client struct {
	status       *connect.Client[GetStatusRequest, GetStatusResponse]
	rating       *connect.Client[GetRatingRequest, GetRatingResponse]
	submitReview *connect.Client[SubmitReviewRequest, SubmitReviewResponse]
	listReviews  *connect.Client[ListReviewsRequest, ListReviewsResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		status:       connect.NewClient[GetStatusRequest, GetStatusResponse](httpClient, baseURL+GetStatusProcedure, Codec()),
		rating:       connect.NewClient[GetRatingRequest, GetRatingResponse](httpClient, baseURL+GetRatingProcedure, Codec()),
		submitReview: connect.NewClient[SubmitReviewRequest, SubmitReviewResponse](httpClient, baseURL+SubmitReviewProcedure, Codec()),
		listReviews:  connect.NewClient[ListReviewsRequest, ListReviewsResponse](httpClient, baseURL+ListReviewsProcedure, Codec()),
	}
}

// NewDefaultClient talks to a server on this machine.
func NewDefaultClient(port string) *Client {
	return NewClient(http.DefaultClient, "http://127.0.0.1:"+port)
}

func (c *Client) GetStatus(ctx context.Context) (*GetStatusResponse, error) {
	resp, err := c.status.CallUnary(ctx, connect.NewRequest(&GetStatusRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) GetRating(ctx context.Context, req *GetRatingRequest) (*GetRatingResponse, error) {
	resp, err := c.rating.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) SubmitReview(ctx context.Context, req *SubmitReviewRequest) (*SubmitReviewResponse, error) {
	resp, err := c.submitReview.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) ListReviews(ctx context.Context, req *ListReviewsRequest) (*ListReviewsResponse, error) {
	resp, err := c.listReviews.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
