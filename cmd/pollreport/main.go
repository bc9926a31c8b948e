package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shaonsust/poll-app/internal/adapters/repository/postgres"
	"github.com/shaonsust/poll-app/internal/config"
	"github.com/shaonsust/poll-app/internal/core/domain"
	"github.com/shaonsust/poll-app/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Postgres.Host, "db-host", cfg.Postgres.Host, "Database host")
	flag.StringVar(&cfg.Postgres.Port, "db-port", cfg.Postgres.Port, "Database port")
	flag.StringVar(&cfg.Postgres.User, "db-user", cfg.Postgres.User, "Database user")
	flag.StringVar(&cfg.Postgres.Password, "db-pass", cfg.Postgres.Password, "Database password")
	flag.StringVar(&cfg.Postgres.DB, "db-name", cfg.Postgres.DB, "Database name")
	flag.Parse()

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	reportService := services.NewReportService(
		postgres.NewQuestionRepository(db),
		postgres.NewChoiceRepository(db),
	)

	log.Println("Starting poll report job...")

	results, err := reportService.SummarizeAll(ctx)
	if err != nil {
		log.Fatalf("Error summarizing polls: %v", err)
	}

	if err := printReport(os.Stdout, results); err != nil {
		log.Fatalf("Error writing report: %v", err)
	}

	log.Printf("Poll report completed for %d questions.", len(results))
}

func printReport(w io.Writer, results []domain.QuestionResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%d votes\n", r.Question.ID, r.Question.Text, r.Question.PubDate.Format(time.RFC3339), r.TotalVotes)
		for _, c := range r.Choices {
			fmt.Fprintf(tw, "\t%s\t%d\t%.1f%%\n", c.Text, c.Votes, c.Percentage)
		}
	}
	return tw.Flush()
}
