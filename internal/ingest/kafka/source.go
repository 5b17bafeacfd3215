package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/IBM/sarama"

	"paymentengine/internal/domain"
	"paymentengine/internal/ingest"
	"paymentengine/internal/pkg/logging"
	"paymentengine/internal/pkg/validation"
)

// transactionMessage is the wire shape of a message on the configured
// topic: the same four fields as a CSV row, carried as JSON instead of
// comma-separated text.
type transactionMessage struct {
	Type     string  `json:"type"`
	ClientID uint16  `json:"client"`
	TxID     uint32  `json:"tx"`
	Amount   *string `json:"amount,omitempty"`
}

// Source implements ingest.Source over a sarama consumer group. Messages
// are decoded and validated as they arrive off each partition's claim and
// buffered onto a single channel; Next drains that channel, so callers see
// one ordered stream regardless of how many partitions are assigned.
//
// A message is marked (and the session committed) only after Next has
// successfully handed the decoded Record back to its caller. A malformed
// message is logged and marked immediately, same as a malformed CSV row:
// it is a producer bug, not a transient failure, so retrying it forever
// would only wedge the partition.
type Source struct {
	group  sarama.ConsumerGroup
	topic  string
	cancel context.CancelFunc
	wg     sync.WaitGroup

	records chan pendingRecord
	errs    chan error
}

type pendingRecord struct {
	record  ingest.Record
	session sarama.ConsumerGroupSession
	message *sarama.ConsumerMessage
}

// Open starts a consumer group session against cfg.Topic and returns a
// Source ready for Next. The returned Source owns a background goroutine
// running consumerGroup.Consume in a loop (sarama requires re-entering
// Consume after every rebalance); Close stops it and waits for exit.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, cfg.ToSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka: creating consumer group: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Source{
		group:   group,
		topic:   cfg.Topic,
		cancel:  cancel,
		records: make(chan pendingRecord, 256),
		errs:    make(chan error, 1),
	}

	handler := &groupHandler{records: s.records}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			if err := group.Consume(runCtx, []string{cfg.Topic}, handler); err != nil {
				logging.Error("kafka: consume session ended", err, map[string]interface{}{"topic": cfg.Topic})
			}
			if runCtx.Err() != nil {
				close(s.records)
				return
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case err, ok := <-group.Errors():
				if !ok {
					return
				}
				logging.Error("kafka: consumer group error", err, nil)
			case <-runCtx.Done():
				return
			}
		}
	}()

	return s, nil
}

// Next blocks until a decoded record is available, the source is closed,
// or ctx is cancelled. The offset is marked and committed as soon as the
// record is handed back to the caller: ingest.Source has no notion of
// "processing succeeded", so this source treats successful decode-and-
// delivery as the unit of at-least-once progress.
func (s *Source) Next(ctx context.Context) (ingest.Record, bool, error) {
	select {
	case p, ok := <-s.records:
		if !ok {
			return ingest.Record{}, false, nil
		}
		p.session.MarkMessage(p.message, "")
		p.session.Commit()
		return p.record, true, nil
	case <-ctx.Done():
		return ingest.Record{}, false, ctx.Err()
	}
}

// Close stops the consumer group and waits for its goroutines to exit.
func (s *Source) Close() error {
	s.cancel()
	s.wg.Wait()
	return s.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler, decoding each claim
// message into a pendingRecord and forwarding it to records. A message
// that fails to decode or validate is logged and marked immediately — it
// will never become processable by reprocessing.
type groupHandler struct {
	records chan<- pendingRecord
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			record, err := decode(message)
			if err != nil {
				logging.Warn("kafka: skipping malformed message", map[string]interface{}{
					"partition": message.Partition, "offset": message.Offset, "error": err.Error(),
				})
				session.MarkMessage(message, "")
				session.Commit()
				continue
			}
			h.records <- pendingRecord{record: record, session: session, message: message}
		case <-session.Context().Done():
			return nil
		}
	}
}

func decode(message *sarama.ConsumerMessage) (ingest.Record, error) {
	var tm transactionMessage
	if err := json.Unmarshal(message.Value, &tm); err != nil {
		return ingest.Record{}, fmt.Errorf("unmarshal: %w", err)
	}

	kind := strings.ToLower(strings.TrimSpace(tm.Type))
	if err := validation.ValidateRow(validation.Row{
		Kind:     kind,
		ClientID: tm.ClientID,
		TxID:     tm.TxID,
		Amount:   tm.Amount,
	}); err != nil {
		return ingest.Record{}, err
	}

	cid := domain.ClientID(tm.ClientID)
	tid := domain.TxID(tm.TxID)

	var cmd domain.Command
	switch kind {
	case "deposit":
		amount, err := domain.NewAmount(*tm.Amount)
		if err != nil {
			return ingest.Record{}, err
		}
		cmd = domain.NewDepositCommand(cid, tid, amount)
	case "withdrawal":
		amount, err := domain.NewAmount(*tm.Amount)
		if err != nil {
			return ingest.Record{}, err
		}
		cmd = domain.NewWithdrawCommand(cid, tid, amount)
	case "dispute":
		cmd = domain.NewDisputeCommand(cid, tid)
	case "resolve":
		cmd = domain.NewResolveCommand(cid, tid)
	case "chargeback":
		cmd = domain.NewChargebackCommand(cid, tid)
	default:
		return ingest.Record{}, fmt.Errorf("unknown transaction type %q", kind)
	}

	return ingest.Record{
		Command:          cmd,
		DeduplicationKey: domain.KafkaDeduplicationKey(message.Partition, message.Offset),
	}, nil
}
