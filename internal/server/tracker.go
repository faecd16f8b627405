package server

import (
	"context"
	"errors"
	"fmt"

	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/messaging"
	"dota-review-tracker/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type TrackerServer struct {
	playerSvc   *service.PlayerService
	matchSvc    *service.MatchService
	reviewSvc   *service.ReviewService
	transferSvc *service.TransferService
	controller  *service.GameController
	adapter     *host.Adapter
	hub         *messaging.Hub
}

func NewTrackerServer(
	playerSvc *service.PlayerService,
	matchSvc *service.MatchService,
	reviewSvc *service.ReviewService,
	transferSvc *service.TransferService,
	controller *service.GameController,
	adapter *host.Adapter,
	hub *messaging.Hub,
) *TrackerServer {
	return &TrackerServer{
		playerSvc:   playerSvc,
		matchSvc:    matchSvc,
		reviewSvc:   reviewSvc,
		transferSvc: transferSvc,
		controller:  controller,
		adapter:     adapter,
		hub:         hub,
	}
}

func (s *TrackerServer) GetStatus(ctx context.Context, req *connect.Request[GetStatusRequest]) (*connect.Response[GetStatusResponse], error) {
	snap := s.adapter.Snapshot()
	available := s.adapter.Available()

	hostStatus := "connected"
	if !available {
		hostStatus = "not detected"
	}

	return connect.NewResponse(&GetStatusResponse{
		HostAvailable:  available,
		HostStatus:     hostStatus,
		StoreAvailable: s.transferSvc.StoreAvailable(ctx),
		LocalAccountID: s.controller.LocalID(snap),
		Snapshot:       snap,
		Controller:     s.controller.Status(),
		Windows: map[string]int{
			messaging.WindowDashboard: s.hub.ClientCount(messaging.WindowDashboard),
			messaging.WindowRecord:    s.hub.ClientCount(messaging.WindowRecord),
			messaging.WindowReview:    s.hub.ClientCount(messaging.WindowReview),
		},
	}), nil
}

func (s *TrackerServer) GetPlayer(ctx context.Context, req *connect.Request[GetPlayerRequest]) (*connect.Response[GetPlayerResponse], error) {
	if req.Msg.AccountID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("account_id is required"))
	}

	profile, err := s.playerSvc.GetPlayer(ctx, req.Msg.AccountID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetPlayerResponse{Profile: *profile}), nil
}

func (s *TrackerServer) SearchPlayers(ctx context.Context, req *connect.Request[SearchPlayersRequest]) (*connect.Response[SearchPlayersResponse], error) {
	players, err := s.playerSvc.SearchSuggestions(ctx, req.Msg.Query)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SearchPlayersResponse{Players: players}), nil
}

func (s *TrackerServer) ListMatches(ctx context.Context, req *connect.Request[ListMatchesRequest]) (*connect.Response[ListMatchesResponse], error) {
	matches, err := s.matchSvc.ListMatches(ctx, req.Msg.AccountID, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListMatchesResponse{Matches: matches}), nil
}

func (s *TrackerServer) GetMatch(ctx context.Context, req *connect.Request[GetMatchRequest]) (*connect.Response[GetMatchResponse], error) {
	detail, err := s.matchSvc.GetMatch(ctx, req.Msg.MatchID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetMatchResponse{Match: *detail}), nil
}

func (s *TrackerServer) SubmitReview(ctx context.Context, req *connect.Request[SubmitReviewRequest]) (*connect.Response[SubmitReviewResponse], error) {
	reviewerID, err := s.reviewer(req.Msg.ReviewerID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	review, err := s.reviewSvc.SubmitReview(ctx, service.ReviewInput{
		MatchID:    req.Msg.MatchID,
		SubjectID:  req.Msg.SubjectID,
		ReviewerID: reviewerID,
		Score:      req.Msg.Score,
		Comment:    req.Msg.Comment,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	rating, err := s.reviewSvc.Aggregate(ctx, review.SubjectID, review.ReviewerID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SubmitReviewResponse{Review: *review, Rating: rating}), nil
}

func (s *TrackerServer) GetRating(ctx context.Context, req *connect.Request[GetRatingRequest]) (*connect.Response[GetRatingResponse], error) {
	reviewerID, err := s.reviewer(req.Msg.ReviewerID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	rating, err := s.reviewSvc.Aggregate(ctx, req.Msg.SubjectID, reviewerID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetRatingResponse{Rating: rating}), nil
}

func (s *TrackerServer) ListReviews(ctx context.Context, req *connect.Request[ListReviewsRequest]) (*connect.Response[ListReviewsResponse], error) {
	reviews, err := s.reviewSvc.ListBySubject(ctx, req.Msg.SubjectID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListReviewsResponse{Reviews: reviews}), nil
}

func (s *TrackerServer) GetStrategyBoard(ctx context.Context, req *connect.Request[GetStrategyBoardRequest]) (*connect.Response[GetStrategyBoardResponse], error) {
	snap := s.adapter.Snapshot()

	entries, err := s.reviewSvc.StrategyBoard(ctx, snap.Roster, s.controller.LocalID(snap))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&GetStrategyBoardResponse{
		MatchID: snap.MatchInfo.MatchID,
		Entries: entries,
	}), nil
}

func (s *TrackerServer) ExportData(ctx context.Context, req *connect.Request[ExportDataRequest]) (*connect.Response[ExportDataResponse], error) {
	doc, err := s.transferSvc.Export(ctx)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ExportDataResponse{Document: *doc}), nil
}

func (s *TrackerServer) ImportData(ctx context.Context, req *connect.Request[ImportDataRequest]) (*connect.Response[ImportDataResponse], error) {
	stats, err := s.transferSvc.Import(ctx, &req.Msg.Document)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ImportDataResponse{Stats: stats}), nil
}

func (s *TrackerServer) WipeData(ctx context.Context, req *connect.Request[WipeDataRequest]) (*connect.Response[WipeDataResponse], error) {
	if !req.Msg.Confirm {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("wipe must be confirmed"))
	}
	if err := s.transferSvc.Wipe(ctx); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&WipeDataResponse{}), nil
}

func (s *TrackerServer) reviewer(requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if id := s.controller.LocalID(s.adapter.Snapshot()); id != "" {
		return id, nil
	}
	return "", domain.ErrLocalPlayerUnknown
}

func toConnectError(ctx context.Context, err error) error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound), errors.Is(err, domain.ErrMatchNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, domain.ErrInvalidReview):
		code = connect.CodeInvalidArgument
	case errors.Is(err, domain.ErrDuplicateReview):
		code = connect.CodeAlreadyExists
	case errors.Is(err, domain.ErrUnsupportedVersion), errors.Is(err, domain.ErrLocalPlayerUnknown):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, domain.ErrHostUnavailable):
		code = connect.CodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}

	if code == connect.CodeInternal {
		zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
		return connect.NewError(code, fmt.Errorf("internal error"))
	}
	return connect.NewError(code, err)
}
