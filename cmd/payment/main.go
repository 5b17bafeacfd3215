// cmd/payment is the batch CLI: `payment <file>` processes a CSV of
// transactions through an in-process ClientRegistry and writes the final
// per-client balances to stdout; `payment generate` writes a synthetic
// transaction file for load testing; `payment consume` processes a Kafka
// topic until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"paymentengine/internal/disputeindex"
	"paymentengine/internal/ingest"
	csvingest "paymentengine/internal/ingest/csv"
	kafkaingest "paymentengine/internal/ingest/kafka"
	"paymentengine/internal/journal"
	"paymentengine/internal/mockgen"
	"paymentengine/internal/pkg/config"
	"paymentengine/internal/pkg/logging"
	"paymentengine/internal/registry"
)

// postProcessDrain is how long main waits after the last command has been
// handed to the registry before collecting final states, giving every
// client actor's buffered mailbox a chance to drain.
const postProcessDrain = 500 * time.Millisecond

func main() {
	app := &cli.App{
		Name:  "payment",
		Usage: "a payment processing CLI",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate dummy test data to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "transactions.csv", Usage: "output file path"},
					&cli.IntFlag{Name: "count", Aliases: []string{"c"}, Value: 10, Usage: "number of transactions to generate"},
				},
				Action: func(c *cli.Context) error {
					return mockgen.Generate(c.String("output"), c.Int("count"))
				},
			},
			{
				Name:  "consume",
				Usage: "process commands from the configured Kafka topic until interrupted",
				Action: func(c *cli.Context) error {
					return consumeKafka(c.Context)
				},
			},
		},
		ArgsUsage: "<FILE>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 1 {
				return cli.Exit("please provide a CSV file path or use the 'generate' command", 1)
			}
			return processFile(c.Context, c.Args().First())
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// processFile drives a single CSV file through a fresh registry end to
// end: read every row, submit its command, wait for the mailboxes to
// drain, dump every client's final state to stdout as CSV.
func processFile(ctx context.Context, path string) error {
	cfg := config.Load()
	logging.Init(cfg)

	source, err := csvingest.Open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	j, err := buildJournal(ctx, cfg)
	if err != nil {
		return err
	}
	d := disputeindex.NewInMemory()
	reg := registry.WithTimeouts(j, d, cfg.Actor.CommandTimeout, cfg.Actor.ReadTimeout)
	defer reg.ShutdownAll()

	if err := drain(ctx, source, reg); err != nil {
		return err
	}

	time.Sleep(postProcessDrain)

	states, err := reg.GetAllStates(ctx)
	if err != nil {
		return fmt.Errorf("collecting final states: %w", err)
	}

	sink := csvingest.NewSink(os.Stdout)
	return sink.Write(ctx, states)
}

// buildJournal picks the Journal backend JOURNAL_BACKEND selects: the
// in-memory default, or Postgres when durability across restarts matters.
// The pool a Postgres journal opens lives for the rest of the process.
func buildJournal(ctx context.Context, cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Backend {
	case config.JournalBackendPostgres:
		if cfg.Journal.DSN == "" {
			return nil, fmt.Errorf("journal backend %q requires JOURNAL_POSTGRES_DSN", cfg.Journal.Backend)
		}
		return journal.NewPostgresJournal(ctx, cfg.Journal.DSN)
	case config.JournalBackendMemory:
		return journal.NewInMemoryJournal(), nil
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Journal.Backend)
	}
}

// consumeKafka runs the long-lived streaming mode: commands arrive as JSON
// messages on the configured topic instead of CSV rows, keyed for dedup by
// partition/offset, until SIGINT/SIGTERM stops the consumer. There is no
// final balance dump here — the stream has no end; current state is served
// by the read-only API instead.
func consumeKafka(ctx context.Context) error {
	cfg := config.Load()
	logging.Init(cfg)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := kafkaingest.Open(runCtx, kafkaingest.FromAppConfig(cfg.Kafka))
	if err != nil {
		return err
	}
	defer source.Close()

	j, err := buildJournal(runCtx, cfg)
	if err != nil {
		return err
	}
	d := disputeindex.NewInMemory()
	reg := registry.WithTimeouts(j, d, cfg.Actor.CommandTimeout, cfg.Actor.ReadTimeout)
	defer reg.ShutdownAll()

	logging.Info("consuming commands", map[string]interface{}{
		"topic": cfg.Kafka.Topic, "group": cfg.Kafka.ConsumerGroup,
	})

	if err := drain(runCtx, source, reg); err != nil {
		if runCtx.Err() != nil {
			logging.Info("consumer stopped", nil)
			return nil
		}
		return err
	}
	return nil
}

// drain feeds every record from source into reg, logging (not aborting on)
// per-command processing errors — a rejected withdrawal or a duplicate
// transaction is an expected, recoverable outcome for a batch run, never
// a reason to stop processing the rest of the file.
func drain(ctx context.Context, source ingest.Source, reg *registry.ClientRegistry) error {
	for {
		record, ok, err := source.Next(ctx)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if !ok {
			return nil
		}

		if paymentErr := reg.ProcessCommand(ctx, record.Command, record.DeduplicationKey); paymentErr != nil {
			logging.Warn("command rejected", map[string]interface{}{
				"client": record.Command.ClientIDOf(),
				"tx":     record.Command.TxIDOf(),
				"error":  paymentErr.Error(),
			})
		}
	}
}
