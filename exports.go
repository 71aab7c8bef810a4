package storefront

import (
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/types"
)

// Re-export common types for convenience so users don't have to import
// the subpackages.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	Zero = types.Zero
)

// Re-export Entity constructor
var NewEntity = types.NewEntity

// ID is the primary identifier type for all Storefront entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
