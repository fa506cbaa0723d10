package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cfnats "github.com/Strob0t/CRMForge/internal/adapter/nats"
	"github.com/Strob0t/CRMForge/internal/config"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/port/messagequeue"
)

// runEvents prints change events as they arrive, one line per event.
func runEvents(args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	subject := fs.String("subject", messagequeue.SubjectAllChanges, "subject filter, e.g. crm.deal.>")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.NATS.URL == "" {
		return errors.New("events requires nats.url to be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue, err := cfnats.Connect(ctx, cfg.NATS)
	if err != nil {
		return err
	}
	defer func() { _ = queue.Close() }()

	cancel, err := queue.Subscribe(ctx, *subject, func(_ context.Context, subj string, data []byte) error {
		var c event.Change
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("decode %s: %w", subj, err)
		}
		fmt.Printf("%s\t%s\t%s\tuser=%s\n", c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), subj, c.ID, c.UserID)
		return nil
	})
	if err != nil {
		return err
	}
	defer cancel()

	fmt.Fprintf(os.Stderr, "Listening on %s (Ctrl+C to stop)\n", *subject)
	<-ctx.Done()
	return nil
}
