package wallet

import "time"

// CashflowPoint is one month of aggregated wallet activity.
type CashflowPoint struct {
	Month   string  `json:"month"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// Cashflow buckets settled transactions into the trailing months window,
// newest month last. Months with no activity still appear with zero values so
// charts render a continuous axis. Pending and failed transactions are
// excluded.
func Cashflow(txs []Transaction, months int, now time.Time) []CashflowPoint {
	if months <= 0 {
		return nil
	}
	type bucket struct{ in, out float64 }
	byMonth := make(map[string]*bucket, months)
	points := make([]CashflowPoint, 0, months)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		byMonth[key] = &bucket{}
		points = append(points, CashflowPoint{Month: m.Format("Jan 2006")})
	}
	for _, tx := range txs {
		if !tx.settled() {
			continue
		}
		b, ok := byMonth[tx.CreatedAt.Format("2006-01")]
		if !ok {
			continue
		}
		switch tx.Direction {
		case DirectionCredit:
			b.in += tx.Amount
		case DirectionDebit:
			b.out += tx.Amount
		}
	}
	for i := range points {
		m := start.AddDate(0, i, 0)
		b := byMonth[m.Format("2006-01")]
		points[i].Inflow = b.in
		points[i].Outflow = b.out
		points[i].Net = b.in - b.out
	}
	return points
}

// Balance sums settled credits minus settled debits.
func Balance(txs []Transaction) float64 {
	var total float64
	for _, tx := range txs {
		if !tx.settled() {
			continue
		}
		switch tx.Direction {
		case DirectionCredit:
			total += tx.Amount
		case DirectionDebit:
			total -= tx.Amount
		}
	}
	return total
}
