package platform

import (
	"context"

	"github.com/xraph/storefront/catalog"
)

// Client is the purchase backend Storefront drives. Implementations wrap a
// real platform store SDK or, in tests, a scripted fake.
//
// Stream channels (Updates, Unfinished, CurrentEntitlements) are owned by
// the client: the client closes them when the session ends, and may deliver
// the same transaction on more than one stream. Storefront tolerates
// duplicate delivery.
type Client interface {
	// FetchProducts resolves catalog metadata for the given identifiers.
	// Unknown identifiers are omitted from the result, not errors.
	FetchProducts(ctx context.Context, ids []string) ([]catalog.Product, error)

	// Purchase starts the platform purchase flow for a product and blocks
	// until the flow resolves. A cancelled or pending flow is a normal
	// outcome, not an error.
	Purchase(ctx context.Context, productID string) (PurchaseResult, error)

	// Sync forces a full replay of the user's purchase history. Completed
	// transactions arrive on the entitlement and update streams.
	Sync(ctx context.Context) error

	// Status fetches the current subscription-group status records.
	Status(ctx context.Context, groupID string) ([]Status, error)

	// VerifyTransaction checks the signature envelope and returns the
	// verified transaction.
	VerifyTransaction(ctx context.Context, st SignedTransaction) (Transaction, error)

	// VerifyRenewal checks the renewal-info envelope and returns the
	// verified renewal metadata.
	VerifyRenewal(ctx context.Context, sr SignedRenewal) (RenewalInfo, error)

	// Finish acknowledges a transaction so the platform stops redelivering
	// it. Callers must only finish a transaction after its effects are
	// durably applied.
	Finish(ctx context.Context, st SignedTransaction) error

	// Updates is the live stream of new and changed transactions.
	Updates(ctx context.Context) <-chan SignedTransaction

	// Unfinished replays transactions that were never finished, such as
	// purchases completed outside the app or interrupted mid-delivery.
	Unfinished(ctx context.Context) <-chan SignedTransaction

	// CurrentEntitlements streams the user's currently entitled
	// transactions: the latest per auto-renewable group plus all
	// non-consumables still owned.
	CurrentEntitlements(ctx context.Context) <-chan SignedTransaction
}
