package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"paymentengine/internal/domain"
)

var outputHeader = []string{"client", "available", "held", "total", "locked"}

// Sink writes the final client_id -> AccountState map as CSV, sorted
// ascending by client, to an io.Writer. Amounts render with exactly four
// decimal places via domain.Amount.String.
type Sink struct {
	out io.Writer
}

func NewSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

func (s *Sink) Write(_ context.Context, states map[domain.ClientID]domain.AccountState) error {
	w := csv.NewWriter(s.out)

	if err := w.Write(outputHeader); err != nil {
		return fmt.Errorf("csv sink: writing header: %w", err)
	}

	clientIDs := make([]domain.ClientID, 0, len(states))
	for id := range states {
		clientIDs = append(clientIDs, id)
	}
	sort.Slice(clientIDs, func(i, j int) bool { return clientIDs[i] < clientIDs[j] })

	for _, id := range clientIDs {
		state := states[id]
		locked := "false"
		if state.IsFrozen() {
			locked = "true"
		}
		row := []string{
			fmt.Sprintf("%d", id),
			state.AvailableAmount().String(),
			state.HeldAmount().String(),
			state.TotalAmount().String(),
			locked,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv sink: writing row for client %d: %w", id, err)
		}
	}

	w.Flush()
	return w.Error()
}
