// reviewctl - offline tools for the local review store
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"dota-review-tracker/internal/config"
	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/database"
	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/logger"
	"dota-review-tracker/internal/repository"
	"dota-review-tracker/internal/server"
	"dota-review-tracker/internal/service"

	flag "github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "export":
		err = cmdExport(os.Args[2:])
	case "import":
		err = cmdImport(os.Args[2:])
	case "wipe":
		err = cmdWipe(os.Args[2:])
	case "rating":
		err = cmdRating(os.Args[2:])
	case "status":
		err = cmdStatus(os.Args[2:])
	case "replay":
		err = cmdReplay(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: reviewctl <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export [--out file]                 Write every collection as a JSON document")
	fmt.Println("  import <file>                       Load an export document (version must match)")
	fmt.Println("  wipe --yes                          Delete all local data")
	fmt.Println("  rating <account_id> [--reviewer id] Show a reviewer's history of a player")
	fmt.Println("  status [--port N]                   Ask a running server for its status")
	fmt.Println("  replay <script> [--bridge addr]     Post a recorded host session to the bridge")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Store commands accept --db <path> (default: DB_PATH or dota-reviews.db).")
}

type store struct {
	sqlDB    *sql.DB
	players  *repository.PlayerRepository
	reviews  *service.ReviewService
	transfer *service.TransferService
}

func openStore(dbPath string) (*store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	// stdout is reserved for command output
	log := logger.SetLevel(os.Stderr, cfg.Level())

	sqlDB, err := database.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	queries := db.New(sqlDB)
	players := repository.NewPlayerRepository(sqlDB, queries, log)
	matches := repository.NewMatchRepository(sqlDB, queries, log)
	reviews := repository.NewReviewRepository(sqlDB, queries, log)
	data := repository.NewDataRepository(sqlDB, queries, log)

	return &store{
		sqlDB:    sqlDB,
		players:  players,
		reviews:  service.NewReviewService(reviews, players, matches, log),
		transfer: service.NewTransferService(data, log),
	}, cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the database file")
	out := fs.StringP("out", "o", "", "output file (default stdout)")
	fs.Parse(args)

	s, _, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.sqlDB.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if *out == "" {
		return s.transfer.WriteExport(ctx, os.Stdout)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	return writeExport(ctx, s.transfer, f)
}

// writeExport writes the export document to w and closes it. A failed
// close fails the export.
func writeExport(ctx context.Context, transfer *service.TransferService, w io.WriteCloser) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export: %w", cerr)
		}
	}()
	return transfer.WriteExport(ctx, w)
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the database file")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: reviewctl import <file>")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	s, _, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.sqlDB.Close()

	ctx, cancel := signalContext()
	defer cancel()

	stats, err := s.transfer.ReadImport(ctx, f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d matches, %d players, %d participants, %d reviews (%d skipped)\n",
		stats.Matches, stats.Players, stats.Participants, stats.Reviews, stats.Skipped)
	return nil
}

func cmdWipe(args []string) error {
	fs := flag.NewFlagSet("wipe", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the database file")
	yes := fs.BoolP("yes", "y", false, "confirm deleting all data")
	fs.Parse(args)

	if !*yes {
		return fmt.Errorf("refusing to wipe without --yes")
	}

	s, _, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.sqlDB.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := s.transfer.Wipe(ctx); err != nil {
		return err
	}
	fmt.Println("All local data deleted")
	return nil
}

func cmdRating(args []string) error {
	fs := flag.NewFlagSet("rating", flag.ExitOnError)
	dbPath := fs.String("db", "", "path to the database file")
	reviewer := fs.String("reviewer", "", "reviewer account id (default LOCAL_ACCOUNT_ID)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: reviewctl rating <account_id>")
	}
	subjectID := fs.Arg(0)

	s, cfg, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.sqlDB.Close()

	reviewerID := *reviewer
	if reviewerID == "" {
		reviewerID = cfg.LocalAccountID
	}
	if reviewerID == "" {
		return fmt.Errorf("no reviewer: pass --reviewer or set LOCAL_ACCOUNT_ID")
	}

	ctx, cancel := signalContext()
	defer cancel()

	name := subjectID
	if p, err := s.players.Get(ctx, subjectID); err == nil {
		name = p.Name
		if len(p.NameHistory) > 0 {
			name += " (was " + strings.Join(p.NameHistory, ", ") + ")"
		}
	}

	summary, err := s.reviews.Aggregate(ctx, subjectID, reviewerID)
	if err != nil {
		return err
	}

	fmt.Printf("Player: %s\n", name)
	if !summary.HasHistory {
		fmt.Println("No reviews yet")
		return nil
	}
	fmt.Printf("Average: %.2f over %d reviews\n", summary.AverageScore, summary.Count)
	fmt.Printf("Last: %d %s\n\n", summary.LastScore, summary.LastComment)

	reviews, err := s.reviews.ListBySubject(ctx, subjectID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tMATCH\tREVIEWER\tSCORE\tCOMMENT")
	for _, r := range reviews {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.MatchID, r.ReviewerID, r.Score, r.Comment)
	}
	return w.Flush()
}

func cmdStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	port := fs.String("port", "", "API port of the running server (default SERVER_PORT)")
	fs.Parse(args)

	if *port == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		*port = cfg.ServerPort
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.HostTimeout)
	defer cancel()

	status, err := server.NewDefaultClient(*port).GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Host:\t%s\n", status.HostStatus)
	fmt.Fprintf(w, "Store:\t%t\n", status.StoreAvailable)
	fmt.Fprintf(w, "Local player:\t%s\n", status.LocalAccountID)
	fmt.Fprintf(w, "Match:\t%s\n", status.Snapshot.MatchInfo.MatchID)
	fmt.Fprintf(w, "State:\t%s\n", status.Controller.State)
	fmt.Fprintf(w, "Recorded:\t%d\n", status.Controller.Recorded)
	if status.Controller.LastError != "" {
		fmt.Fprintf(w, "Last error:\t%s\n", status.Controller.LastError)
	}
	for window, n := range status.Windows {
		fmt.Fprintf(w, "Window %s:\t%d\n", window, n)
	}
	return w.Flush()
}

func cmdReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	bridge := fs.String("bridge", "", "bridge address (default BRIDGE_ADDR)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: reviewctl replay <script>")
	}

	if *bridge == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		*bridge = cfg.BridgeAddr
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	steps, err := host.ReadScript(f)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := host.NewBridgeClient(*bridge)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("bridge not reachable at %s: %w", *bridge, err)
	}

	start := time.Now()
	if err := client.Replay(ctx, steps); err != nil {
		return err
	}
	fmt.Printf("Replayed %d steps in %s\n", len(steps), time.Since(start).Round(time.Millisecond))
	return nil
}
