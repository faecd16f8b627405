package server

import (
	"net/http"

	"connectrpc.com/connect"
)

// ReviewTrackerPath is the route prefix of every procedure.
const ReviewTrackerPath = "/dotareview.v1.ReviewTracker/"

const (
	GetStatusProcedure        = ReviewTrackerPath + "GetStatus"
	GetPlayerProcedure        = ReviewTrackerPath + "GetPlayer"
	SearchPlayersProcedure    = ReviewTrackerPath + "SearchPlayers"
	ListMatchesProcedure      = ReviewTrackerPath + "ListMatches"
	GetMatchProcedure         = ReviewTrackerPath + "GetMatch"
	SubmitReviewProcedure     = ReviewTrackerPath + "SubmitReview"
	GetRatingProcedure        = ReviewTrackerPath + "GetRating"
	ListReviewsProcedure      = ReviewTrackerPath + "ListReviews"
	GetStrategyBoardProcedure = ReviewTrackerPath + "GetStrategyBoard"
	ExportDataProcedure       = ReviewTrackerPath + "ExportData"
	ImportDataProcedure       = ReviewTrackerPath + "ImportData"
	WipeDataProcedure         = ReviewTrackerPath + "WipeData"
)

// Codec returns the option both handlers and clients need to speak JSON.
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// NewReviewTrackerHandler builds the handler for every procedure and returns
// it with the path it should be mounted on.
func NewReviewTrackerHandler(s *TrackerServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{Codec()}, opts...)
	mux := http.NewServeMux()

	mux.Handle(GetStatusProcedure, connect.NewUnaryHandler(GetStatusProcedure, s.GetStatus, opts...))
	mux.Handle(GetPlayerProcedure, connect.NewUnaryHandler(GetPlayerProcedure, s.GetPlayer, opts...))
	mux.Handle(SearchPlayersProcedure, connect.NewUnaryHandler(SearchPlayersProcedure, s.SearchPlayers, opts...))
	mux.Handle(ListMatchesProcedure, connect.NewUnaryHandler(ListMatchesProcedure, s.ListMatches, opts...))
	mux.Handle(GetMatchProcedure, connect.NewUnaryHandler(GetMatchProcedure, s.GetMatch, opts...))
	mux.Handle(SubmitReviewProcedure, connect.NewUnaryHandler(SubmitReviewProcedure, s.SubmitReview, opts...))
	mux.Handle(GetRatingProcedure, connect.NewUnaryHandler(GetRatingProcedure, s.GetRating, opts...))
	mux.Handle(ListReviewsProcedure, connect.NewUnaryHandler(ListReviewsProcedure, s.ListReviews, opts...))
	mux.Handle(GetStrategyBoardProcedure, connect.NewUnaryHandler(GetStrategyBoardProcedure, s.GetStrategyBoard, opts...))
	mux.Handle(ExportDataProcedure, connect.NewUnaryHandler(ExportDataProcedure, s.ExportData, opts...))
	mux.Handle(ImportDataProcedure, connect.NewUnaryHandler(ImportDataProcedure, s.ImportData, opts...))
	mux.Handle(WipeDataProcedure, connect.NewUnaryHandler(WipeDataProcedure, s.WipeData, opts...))

	return ReviewTrackerPath, mux
}
