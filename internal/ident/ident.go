// Package ident generates primary-key identifiers for new entities.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// prefix distinguishes identifiers minted by this server from ids supplied
// by the extension during list synchronization.
const prefix = "lhf_"

// New returns a collision-resistant string identifier suitable as a
// primary key.
func New() string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
