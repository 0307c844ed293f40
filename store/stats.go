package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ldyuan/tradenote/parse"
)

// TradeLine is one trade row as reported in a detailed summary.
type TradeLine struct {
	Name      string
	Kind      parse.Kind
	Direction parse.Direction
	Quantity  float64
	Price     float64
	Date      time.Time
}

// Summary aggregates one partner's ledger. TotalValue is the sum of
// quantity*price over all trades, computed in decimal so the 2-dp report
// never drifts from the stored figures.
type Summary struct {
	Trades     int
	Notes      int
	TotalValue decimal.Decimal
	Buys       int
	Sells      int

	// Detailed-only breakdown.
	Detailed bool
	Spot     int
	Contract int
	Recent   []TradeLine
}

// recentLimit caps how many trades a detailed summary lists.
const recentLimit = 5

// Stats aggregates the partner's trade and note tables. With detailed set
// it additionally splits trades by kind and lists the most recent entries.
func (s *Store) Stats(partner string, detailed bool) (Summary, error) {
	db, err := s.db(partner)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{TotalValue: decimal.Zero, Detailed: detailed}

	if err := db.QueryRow(`SELECT COUNT(*) FROM note`).Scan(&sum.Notes); err != nil {
		return Summary{}, fmt.Errorf("count notes: %w", err)
	}

	rows, err := db.Query(`SELECT type, direction, number, price FROM trade`)
	if err != nil {
		return Summary{}, fmt.Errorf("scan trades: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, direction int
		var qty, price float64
		if err := rows.Scan(&kind, &direction, &qty, &price); err != nil {
			return Summary{}, fmt.Errorf("scan trades: %w", err)
		}

		sum.Trades++
		sum.TotalValue = sum.TotalValue.Add(
			decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)))
		if parse.Direction(direction) == parse.DirectionBuy {
			sum.Buys++
		} else {
			sum.Sells++
		}
		if parse.Kind(kind) == parse.KindContract {
			sum.Contract++
		} else {
			sum.Spot++
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("scan trades: %w", err)
	}

	if detailed {
		recent, err := s.recentTrades(partner)
		if err != nil {
			return Summary{}, err
		}
		sum.Recent = recent
	}

	return sum, nil
}

func (s *Store) recentTrades(partner string) ([]TradeLine, error) {
	db, err := s.db(partner)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT name, type, direction, number, price, date
		FROM trade
		ORDER BY date DESC, id DESC
		LIMIT ?`, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent trades: %w", err)
	}
	defer rows.Close()

	var out []TradeLine
	for rows.Next() {
		var line TradeLine
		var kind, direction int
		if err := rows.Scan(&line.Name, &kind, &direction, &line.Quantity, &line.Price, &line.Date); err != nil {
			return nil, fmt.Errorf("list recent trades: %w", err)
		}
		line.Kind = parse.Kind(kind)
		line.Direction = parse.Direction(direction)
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent trades: %w", err)
	}
	return out, nil
}

// Text renders the summary as the reply sent back to the partner.
func (s Summary) Text() string {
	var b strings.Builder
	b.WriteString("数据库统计:\n")
	fmt.Fprintf(&b, "交易记录: %d\n", s.Trades)
	fmt.Fprintf(&b, "笔记记录: %d", s.Notes)

	if s.Trades > 0 {
		fmt.Fprintf(&b, "\n总金额: %s", s.TotalValue.StringFixed(2))
		fmt.Fprintf(&b, "\n买入: %d 卖出: %d", s.Buys, s.Sells)
	}

	if s.Detailed && s.Trades > 0 {
		fmt.Fprintf(&b, "\n现货: %d 合约: %d", s.Spot, s.Contract)
		if len(s.Recent) > 0 {
			b.WriteString("\n最近交易:")
			for _, line := range s.Recent {
				fmt.Fprintf(&b, "\n- %s %s %s %.2f @ %.2f",
					line.Name, line.Kind, line.Direction, line.Quantity, line.Price)
			}
		}
	}

	return b.String()
}
