// Package ledger は購入・返品・カート金額の数量計算。DBには触らない。
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidReturnQuantity = errors.New("invalid return quantity")

// あるユーザーがある本について持っている数量
type Holding struct {
	Purchased int64
	Returned  int64
}

// 購入数 - 返品数（マイナスもそのまま）
func (h Holding) Net() int64 {
	return h.Purchased - h.Returned
}

// 返品できる数。マイナスは0扱い
func (h Holding) AvailableToReturn() int64 {
	if n := h.Net(); n > 0 {
		return n
	}
	return 0
}

func (h Holding) Owned() bool {
	return h.Net() > 0
}

// 0 < qty <= 返品可能数 のときだけ通す
func (h Holding) CheckReturn(qty int64) error {
	if qty <= 0 || qty > h.AvailableToReturn() {
		return ErrInvalidReturnQuantity
	}
	return nil
}

// 本ごとの正味購入数。0以下の本は含めない
func PurchasedQuantities(purchased, returned map[int64]int64) map[int64]int64 {
	out := make(map[int64]int64, len(purchased))
	for bookID, p := range purchased {
		h := Holding{Purchased: p, Returned: returned[bookID]}
		if h.Owned() {
			out[bookID] = h.Net()
		}
	}
	return out
}

type PricedLine struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

func (l PricedLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// 数量×単価の合計（小数2桁に丸める）
func CartTotal(lines []PricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}
