// Package chart ships the reference OHADA chart of accounts used to seed
// a fresh database.
package chart

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etudesn/notacompta/internal/domain"
)

//go:embed ohada.json
var ohadaJSON []byte

// Load parses the embedded reference chart. Every account is returned
// active, stamped with now.
func Load(now time.Time) ([]*domain.Account, error) {
	var accounts []*domain.Account
	if err := json.Unmarshal(ohadaJSON, &accounts); err != nil {
		return nil, fmt.Errorf("parsing embedded chart: %w", err)
	}

	for _, a := range accounts {
		a.IsActive = true
		a.CreatedAt = now
		a.UpdatedAt = now
	}

	return accounts, nil
}
