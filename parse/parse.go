// Package parse turns raw chat messages into draft trade or note records.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind classifies a trade record.
type Kind int

const (
	KindSpot     Kind = 0
	KindContract Kind = 1
)

func (k Kind) String() string {
	if k == KindContract {
		return "合约"
	}
	return "现货"
}

// Direction is the side of a trade.
type Direction int

const (
	DirectionSell Direction = 0
	DirectionBuy  Direction = 1
)

func (d Direction) String() string {
	if d == DirectionSell {
		return "卖出"
	}
	return "买入"
}

// DefaultLink is recorded when a trade message carries no link field.
const DefaultLink = "无"

// Draft is a parsed but unconfirmed record. It becomes a persisted row only
// after the sender confirms it (or the confirmation window times out).
type Draft interface {
	// Prompt is the confirmation text sent back to the message author.
	Prompt() string
}

// TradeDraft is a candidate row for the trade table.
type TradeDraft struct {
	Name      string
	Kind      Kind
	Direction Direction
	Quantity  float64
	Price     float64
	Link      string
}

func (d *TradeDraft) Prompt() string {
	var b strings.Builder
	b.WriteString("请确认以下交易信息:\n")
	fmt.Fprintf(&b, "名称: %s\n", d.Name)
	fmt.Fprintf(&b, "类型: %s\n", d.Kind)
	fmt.Fprintf(&b, "方向: %s\n", d.Direction)
	fmt.Fprintf(&b, "数量: %.2f\n", d.Quantity)
	fmt.Fprintf(&b, "价格: %.2f\n", d.Price)
	fmt.Fprintf(&b, "链接: %s\n", d.Link)
	b.WriteString("\n" + promptFooter)
	return b.String()
}

// NoteDraft is a candidate row for the note table.
type NoteDraft struct {
	Name string
	Body string
}

func (d *NoteDraft) Prompt() string {
	var b strings.Builder
	b.WriteString("请确认以下笔记信息:\n")
	fmt.Fprintf(&b, "名称: %s\n", d.Name)
	fmt.Fprintf(&b, "内容: %s\n", d.Body)
	b.WriteString("\n" + promptFooter)
	return b.String()
}

const promptFooter = `回复"确认"或"1"确认写入,回复"不确认"或"0"取消`

const formatHint = `写入失败:格式错误,请使用"名称,类型,方向,数量,价格,链接"(交易)或"名称,内容,备注"(笔记)格式(支持逗号/空格/斜杠分隔)`

// Parse splits a raw message into a Draft. The returned error text is sent
// back to the author verbatim when the message does not match either shape.
//
// Full-width commas, half-width commas, slashes and whitespace runs are all
// treated as the field separator; empty fields are dropped. 6-8 fields make
// a trade, 3-4 fields make a note, anything else is rejected.
func Parse(raw string) (Draft, error) {
	parts := Fields(raw)

	switch n := len(parts); {
	case n >= 6 && n <= 8:
		return parseTrade(parts)
	case n >= 3 && n <= 4:
		return &NoteDraft{Name: parts[0], Body: parts[1]}, nil
	default:
		return nil, fmt.Errorf("%s", formatHint)
	}
}

// Fields normalizes every supported separator and returns the non-empty
// fields of raw in order.
func Fields(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，' || r == '/' || unicode.IsSpace(r)
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTrade(parts []string) (Draft, error) {
	d := &TradeDraft{
		Name:      parts[0],
		Kind:      KindSpot,
		Direction: DirectionBuy,
		Link:      DefaultLink,
	}

	if f := field(parts, 1); f != "" {
		v, err := parseFlag(f)
		if err != nil {
			return nil, fmt.Errorf("写入失败:格式错误,类型必须是0(现货)或1(合约)")
		}
		d.Kind = Kind(v)
	}
	if f := field(parts, 2); f != "" {
		v, err := parseFlag(f)
		if err != nil {
			return nil, fmt.Errorf("写入失败:格式错误,方向必须是0(卖出)或1(买入)")
		}
		d.Direction = Direction(v)
	}
	if f := field(parts, 3); f != "" {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("写入失败:格式错误,数量必须是数字")
		}
		d.Quantity = v
	}
	if f := field(parts, 4); f != "" {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("写入失败:格式错误,价格必须是数字")
		}
		d.Price = v
	}
	if f := field(parts, 5); f != "" {
		d.Link = f
	}

	return d, nil
}

// field returns parts[i], or "" when the message did not carry that many
// fields so the caller falls back to the default.
func field(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

// parseFlag parses a 0/1 field.
func parseFlag(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v != 0 && v != 1 {
		return 0, fmt.Errorf("flag out of range: %d", v)
	}
	return v, nil
}
