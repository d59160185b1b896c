// Command uploader sends resume files to a job one at a time.
//
//	uploader -job <jobId> resume1.pdf resume2.docx ...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/justsurfingit/TalentScout-AI/internal/config"
	"github.com/justsurfingit/TalentScout-AI/internal/uploader"
)

func main() {
	jobID := flag.String("job", "", "job id to grade the resumes against")
	flag.Parse()

	if *jobID == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: uploader -job <jobId> <file>...")
		os.Exit(2)
	}

	cfg, err := config.LoadUploader()
	if err != nil {
		log.Fatal(err)
	}

	var files []uploader.File
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("❌ read %s: %v", path, err)
		}
		files = append(files, uploader.File{Name: filepath.Base(path), Data: data})
	}

	// Ctrl-C lets the current upload finish and skips the rest.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := uploader.NewAPIClient(cfg.APIURL, cfg.APIToken)
	q := uploader.NewQueue(client.ForJob(*jobID),
		uploader.WithDelay(cfg.Delay),
		uploader.WithNotify(printItem),
	)

	log.Printf("📤 Uploading %d file(s) to job %s (delay %s)", len(files), *jobID, cfg.Delay)
	q.Add(ctx, files...)
	q.Wait()

	failed := 0
	skipped := 0
	for _, it := range q.Snapshot() {
		if it.Status != uploader.StatusError {
			continue
		}
		if errors.Is(it.Err, context.Canceled) {
			skipped++
		} else {
			failed++
		}
	}
	log.Printf("Done: %d ok, %d failed, %d skipped", len(files)-failed-skipped, failed, skipped)
	if failed > 0 || skipped > 0 {
		os.Exit(1)
	}
}

func printItem(it uploader.Item) {
	switch it.Status {
	case uploader.StatusUploading:
		log.Printf("⏳ %s uploading...", it.Name)
	case uploader.StatusSuccess:
		log.Printf("✅ %s -> %s (score %d, tier %s)", it.Name, it.Candidate.Name, it.Candidate.AIScore, it.Candidate.Tier)
	case uploader.StatusError:
		log.Printf("❌ %s: %v", it.Name, it.Err)
	}
}
