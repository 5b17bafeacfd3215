// Package mockgen generates a synthetic CSV transaction file for load and
// concurrency testing: a spread of deposits and withdrawals per client,
// with roughly a third of clients disputing one of their deposits (and
// half of those escalating to chargeback), the whole file shuffled so
// concurrent per-client actors receive interleaved work rather than one
// client's transactions all landing back-to-back.
package mockgen

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
)

// row mirrors the four CSV columns; Amount is nil for dispute/resolve/
// chargeback rows, matching the wire format's optional fourth column.
type row struct {
	kind     string
	clientID uint32
	txID     uint32
	amount   *float64
}

// Generate writes a CSV file in the engine's wire format to output, spread
// across between 10 and 1000 synthetic clients. The row count is derived
// from count (per-client deposits and withdrawals plus dispute follow-ups)
// and is not exactly count; the printed summary reports the real number.
func Generate(output string, count int) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("mockgen: creating %s: %w", output, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return fmt.Errorf("mockgen: writing header: %w", err)
	}

	rows := generateRows(count)
	for _, r := range rows {
		amountStr := ""
		if r.amount != nil {
			amountStr = fmt.Sprintf("%.4f", *r.amount)
		}
		record := []string{r.kind, fmt.Sprintf("%d", r.clientID), fmt.Sprintf("%d", r.txID), amountStr}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("mockgen: writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("mockgen: flushing %s: %w", output, err)
	}

	fmt.Printf("generated %d transactions across %d clients to %s\n", len(rows), numClients(count), output)
	return nil
}

func numClients(count int) int {
	n := count / 10
	if n < 10 {
		return 10
	}
	if n > 1000 {
		return 1000
	}
	return n
}

func generateRows(count int) []row {
	numC := numClients(count)
	txPerClient := count / numC

	var all []row
	var txCounter uint32

	for clientID := 1; clientID <= numC; clientID++ {
		var clientRows []row

		numDeposits := txPerClient / 2
		firstTx := txCounter

		for i := 0; i < numDeposits; i++ {
			amount := 1000.0 + rand.Float64()*500.0
			clientRows = append(clientRows, row{kind: "deposit", clientID: uint32(clientID), txID: txCounter, amount: &amount})
			txCounter++
		}

		if numDeposits > 0 {
			numWithdrawals := txPerClient / 4
			if numWithdrawals < 1 {
				numWithdrawals = 1
			}
			for i := 0; i < numWithdrawals; i++ {
				amount := 50.0 + rand.Float64()*250.0
				clientRows = append(clientRows, row{kind: "withdrawal", clientID: uint32(clientID), txID: txCounter, amount: &amount})
				txCounter++
			}
		}

		if clientID%3 == 0 && numDeposits > 0 {
			disputedTx := firstTx + uint32(rand.Intn(1))
			clientRows = append(clientRows, row{kind: "dispute", clientID: uint32(clientID), txID: disputedTx})
			if clientID%6 == 0 {
				clientRows = append(clientRows, row{kind: "chargeback", clientID: uint32(clientID), txID: disputedTx})
			} else {
				clientRows = append(clientRows, row{kind: "resolve", clientID: uint32(clientID), txID: disputedTx})
			}
		}

		all = append(all, clientRows...)
	}

	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all
}
