package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	HostTimeout     = 10 * time.Second
)

const (
	DBMaxOpenConns    = 1 // single writer, keeps transactions serial
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
	DBOpenRetries     = 3
	DBOpenRetryDelay  = 500 * time.Millisecond
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SearchSuggestionLimit = 10
	MatchListLimit        = 50
)

const (
	MinReviewScore   = 1
	MaxReviewScore   = 5
	MaxCommentLength = 200
)

const (
	// ExportFormatVersion is written to and required from export documents.
	ExportFormatVersion = 1
)

const (
	EventQueueSize  = 64
	WindowQueueSize = 32
	BridgeBodyLimit = 1 << 20
	WSWriteWait     = 10 * time.Second
	WSPongWait      = 60 * time.Second
	WSPingPeriod    = 30 * time.Second
	WSReadLimit     = 4096
)
