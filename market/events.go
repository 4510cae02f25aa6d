package market

import (
	"fmt"
	"strings"
)

// Event codes, kept to two letters so log lines stay terse.
const (
	EvIssued      = "is"
	EvListed      = "ls"
	EvDelisted    = "dl"
	EvPurchased   = "px"
	EvPoolFunded  = "pf"
	EvAdminChange = "ac"
)

// Event is one entry of the append-only notification stream. It is a single
// flat record so the wire feed and the log line renderer stay uniform; unused
// fields are simply left at their zero value per event type.
//
//tinyjson:json
type Event struct {
	Type   string `json:"type"`
	ID     uint64 `json:"id,omitempty"`
	Price  string `json:"price,omitempty"`
	Amount string `json:"amount,omitempty"`
	Seller string `json:"seller,omitempty"`
	Buyer  string `json:"buyer,omitempty"`
	By     string `json:"by,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Line renders the short pipe-delimited form explorers grep for, like
// "px|id:3|by:user:bob|s:user:alice|p:2.000000".
func (e Event) Line() string {
	parts := []string{e.Type}
	add := func(tag, v string) {
		if v != "" {
			parts = append(parts, tag+":"+v)
		}
	}
	if e.Type != EvPoolFunded && e.Type != EvAdminChange {
		add("id", fmt.Sprintf("%d", e.ID))
	}
	add("p", e.Price)
	add("am", e.Amount)
	add("s", e.Seller)
	add("b", e.Buyer)
	add("by", e.By)
	add("f", e.Field)
	add("v", e.Value)
	return strings.Join(parts, "|")
}

// emitIssued pings watchers that a fresh asset left the curve at the given price.
func (e *Engine) emitIssued(id uint64, price Amount, to Address) {
	e.sink.Emit(Event{Type: EvIssued, ID: id, Price: FormatAmount(price), By: to.String()})
}

// emitListed marks a new ask on the book.
func (e *Engine) emitListed(id uint64, price Amount, seller Address) {
	e.sink.Emit(Event{Type: EvListed, ID: id, Price: FormatAmount(price), Seller: seller.String()})
}

// emitDelisted mirrors the listed ping when a seller pulls the offer.
func (e *Engine) emitDelisted(id uint64, seller Address) {
	e.sink.Emit(Event{Type: EvDelisted, ID: id, Seller: seller.String()})
}

// emitPurchased carries everything an indexer needs to replay the sale.
func (e *Engine) emitPurchased(r Receipt) {
	e.sink.Emit(Event{
		Type:   EvPurchased,
		ID:     r.ID,
		Price:  FormatAmount(r.Price),
		Seller: r.Seller.String(),
		Buyer:  r.Buyer.String(),
	})
}

// emitPoolFunded traces relay/admin deposits so pool history can be rebuilt from logs.
func (e *Engine) emitPoolFunded(amount Amount, by Address) {
	e.sink.Emit(Event{Type: EvPoolFunded, Amount: FormatAmount(amount), By: by.String()})
}

// emitAdminChange spells out the changed field so auditors can track sensitive flips.
func (e *Engine) emitAdminChange(field, value string, by Address) {
	e.sink.Emit(Event{Type: EvAdminChange, Field: field, Value: value, By: by.String()})
}
