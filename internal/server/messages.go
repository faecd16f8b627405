package server

import (
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/repository"
	"dota-review-tracker/internal/service"
)

type GetStatusRequest struct{}

type GetStatusResponse struct {
	HostAvailable  bool                     `json:"host_available"`
	HostStatus     string                   `json:"host_status"`
	StoreAvailable bool                     `json:"store_available"`
	LocalAccountID string                   `json:"local_account_id"`
	Snapshot       host.Snapshot            `json:"snapshot"`
	Controller     service.ControllerStatus `json:"controller"`
	Windows        map[string]int           `json:"windows"`
}

type GetPlayerRequest struct {
	AccountID string `json:"account_id"`
}

type GetPlayerResponse struct {
	Profile service.PlayerProfile `json:"profile"`
}

type SearchPlayersRequest struct {
	Query string `json:"query"`
}

type SearchPlayersResponse struct {
	Players []domain.Player `json:"players"`
}

type ListMatchesRequest struct {
	AccountID string `json:"account_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type ListMatchesResponse struct {
	Matches []domain.Match `json:"matches"`
}

type GetMatchRequest struct {
	MatchID string `json:"match_id"`
}

type GetMatchResponse struct {
	Match service.MatchDetail `json:"match"`
}

// SubmitReviewRequest defaults ReviewerID to the local player.
type SubmitReviewRequest struct {
	MatchID    string `json:"match_id"`
	SubjectID  string `json:"subject_id"`
	ReviewerID string `json:"reviewer_id,omitempty"`
	Score      int    `json:"score"`
	Comment    string `json:"comment,omitempty"`
}

type SubmitReviewResponse struct {
	Review domain.Review        `json:"review"`
	Rating domain.RatingSummary `json:"rating"`
}

type GetRatingRequest struct {
	SubjectID  string `json:"subject_id"`
	ReviewerID string `json:"reviewer_id,omitempty"`
}

type GetRatingResponse struct {
	Rating domain.RatingSummary `json:"rating"`
}

type ListReviewsRequest struct {
	SubjectID string `json:"subject_id"`
}

type ListReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

type GetStrategyBoardRequest struct{}

type GetStrategyBoardResponse struct {
	MatchID string               `json:"match_id"`
	Entries []service.BoardEntry `json:"entries"`
}

type ExportDataRequest struct{}

type ExportDataResponse struct {
	Document service.ExportDocument `json:"document"`
}

type ImportDataRequest struct {
	Document service.ExportDocument `json:"document"`
}

type ImportDataResponse struct {
	Stats repository.ImportStats `json:"stats"`
}

type WipeDataRequest struct {
	Confirm bool `json:"confirm"`
}

type WipeDataResponse struct{}
