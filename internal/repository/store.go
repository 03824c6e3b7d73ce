// Package repository provides the storage backends of the box office: an
// in-memory store and a MySQL store. Both implement the ledger's write
// contract together with the read side used by seat maps and the audit
// trail.
package repository

import (
	"github.com/iliyamo/cinema-boxoffice/internal/audit"
	"github.com/iliyamo/cinema-boxoffice/internal/ledger"
)

// Store is everything a storage backend offers.
type Store interface {
	ledger.Store
	audit.Source
}
