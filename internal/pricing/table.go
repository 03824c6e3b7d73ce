// Package pricing holds the entry types sold at the box office, the seat
// categories each one may occupy and how each is priced.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// Entry type ids as used by the ticket desk.
const (
	Adult      = 1
	Child      = 2
	Accessible = 3
	Companion  = 4
)

var (
	childDiscount = decimal.RequireFromString("4.00")
	flatPrice     = decimal.RequireFromString("22.00")
)

// EntryType describes one kind of ticket.
type EntryType struct {
	ID       int                `json:"id"`
	Name     string             `json:"nombre"`
	Category model.SeatCategory `json:"tipoAsiento"`
}

// Table is the fixed set of entry types. The zero value is not usable;
// build one with NewTable.
type Table struct {
	types map[int]EntryType
}

func NewTable() *Table {
	return &Table{types: map[int]EntryType{
		Adult:      {ID: Adult, Name: "Adulto", Category: model.CategoryNormal},
		Child:      {ID: Child, Name: "Niño", Category: model.CategoryNormal},
		Accessible: {ID: Accessible, Name: "Discapacitado", Category: model.CategoryAccessible},
		Companion:  {ID: Companion, Name: "Acompañante", Category: model.CategoryCompanion},
	}}
}

// EntryType returns the entry type with the given id.
func (t *Table) EntryType(id int) (EntryType, error) {
	et, ok := t.types[id]
	if !ok {
		return EntryType{}, errs.Newf(errs.CodeInvalidEntryType, "unknown entry type %d", id)
	}
	return et, nil
}

// Compatible reports whether an entry type may be sold on a seat category.
// Unknown entry types are never compatible.
func (t *Table) Compatible(entryTypeID int, category model.SeatCategory) bool {
	et, ok := t.types[entryTypeID]
	return ok && et.Category == category
}

// Price returns the price of an entry type on a seat of the given category
// for a screening whose base price is priceBase. Adult pays the base price,
// Child pays the base price less 4.00 (never below zero), Accessible and
// Companion pay a flat 22.00. Unknown or incompatible combinations fail
// with InvalidEntryType.
func (t *Table) Price(entryTypeID int, category model.SeatCategory, priceBase decimal.Decimal) (decimal.Decimal, error) {
	if !t.Compatible(entryTypeID, category) {
		return decimal.Zero, errs.Newf(errs.CodeInvalidEntryType, "entry type %d cannot be sold on a %s seat", entryTypeID, category)
	}
	switch entryTypeID {
	case Adult:
		return priceBase.Round(2), nil
	case Child:
		p := priceBase.Sub(childDiscount)
		if p.IsNegative() {
			return decimal.Zero, nil
		}
		return p.Round(2), nil
	default:
		return flatPrice, nil
	}
}

// All returns the entry types ordered by id.
func (t *Table) All() []EntryType {
	out := make([]EntryType, 0, len(t.types))
	for id := Adult; id <= Companion; id++ {
		out = append(out, t.types[id])
	}
	return out
}
