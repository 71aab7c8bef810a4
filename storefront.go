package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/xraph/storefront/catalog"
	"github.com/xraph/storefront/grant"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/ledger"
	"github.com/xraph/storefront/platform"
	"github.com/xraph/storefront/plugin"
	"github.com/xraph/storefront/tier"
)

// TierFree is the floor of the default tier scheme.
const TierFree tier.Tier = "free"

// Engine is the main entitlement engine. It reconciles platform purchase
// state into a tier, an owned set, and consumable grants, and exposes the
// result as a State snapshot.
type Engine struct {
	client  platform.Client
	store   ledger.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	sessionID id.SessionID

	scheme       *tier.Scheme
	resolver     *grant.Resolver
	sink         grant.Sink
	activeStates map[platform.RenewalState]bool
	productIDs   []string
	groupID      string

	// Background workers
	stopChan chan struct{}
	wg       sync.WaitGroup

	// procMu serializes transaction processing across the update stream,
	// the unfinished replay, and synchronous purchase delivery, so the
	// check-then-apply sequence in the consumable pipeline never races a
	// duplicate delivery on another stream.
	procMu sync.Mutex

	mu        sync.RWMutex
	started   bool
	products  *catalog.Set
	processed map[uint64]struct{}
	phase     Phase
	tier      tier.Tier
	sub       *SubscriptionDetails

	// Non-consumable ownership, tracked per granting transaction so that
	// a grant and its revocation converge regardless of delivery order.
	ownedTxns   map[uint64]string
	revokedTxns map[uint64]struct{}
}

// New creates a new Engine instance. The client drives the platform store;
// the ledger store keeps processed-transaction state across sessions.
func New(client platform.Client, store ledger.Store, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		store:     store,
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		sessionID: id.NewSessionID(),
		scheme:    tier.NewScheme([]tier.Tier{TierFree}),
		resolver:  grant.NewResolver(),
		activeStates: map[platform.RenewalState]bool{
			platform.StateSubscribed:     true,
			platform.StateInGracePeriod:  true,
			platform.StateInBillingRetry: true,
		},
		stopChan:    make(chan struct{}),
		products:    catalog.EmptySet(),
		processed:   make(map[uint64]struct{}),
		ownedTxns:   make(map[uint64]string),
		revokedTxns: make(map[uint64]struct{}),
		phase:       PhaseIdle,
	}
	e.tier = e.scheme.Floor()

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithTierScheme sets the entitlement tier scheme. The engine falls back to
// the scheme's floor whenever no subscription is active.
func WithTierScheme(s *tier.Scheme) Option {
	return func(e *Engine) {
		e.scheme = s
		e.tier = s.Floor()
	}
}

// WithGrantResolver sets the consumable grant resolver.
func WithGrantResolver(r *grant.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithEconomySink sets the sink consumable grants are applied through.
func WithEconomySink(s grant.Sink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithProducts sets the product identifiers loaded from the platform.
func WithProducts(ids ...string) Option {
	return func(e *Engine) {
		e.productIDs = ids
	}
}

// WithSubscriptionGroup sets the subscription group refreshed by
// RefreshStatus and by incoming auto-renewable transactions.
func WithSubscriptionGroup(groupID string) Option {
	return func(e *Engine) {
		e.groupID = groupID
	}
}

// WithActiveRenewalStates overrides which renewal states count as active
// during status reconciliation. The default treats subscribed, grace
// period, and billing retry as active.
func WithActiveRenewalStates(states ...platform.RenewalState) Option {
	return func(e *Engine) {
		e.activeStates = make(map[platform.RenewalState]bool, len(states))
		for _, s := range states {
			e.activeStates[s] = true
		}
	}
}

// Start migrates the ledger store, loads the processed-transaction set, and
// begins the background workers that consume the platform streams.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.started = true
	e.mu.Unlock()

	if err := e.store.Migrate(ctx); err != nil {
		return fmt.Errorf("storefront: migrate ledger store: %w", err)
	}

	recs, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("storefront: load ledger: %w", err)
	}
	e.mu.Lock()
	for _, rec := range recs {
		e.processed[rec.TxnID] = struct{}{}
	}
	e.mu.Unlock()

	e.plugins.EmitInit(ctx, e)

	e.wg.Add(3)
	go e.streamWorker(ctx, e.client.Updates(ctx), "updates")
	go e.streamWorker(ctx, e.client.Unfinished(ctx), "unfinished")
	go e.entitlementsWorker(ctx)

	e.logger.Info("storefront started",
		"session", e.sessionID,
		"known_transactions", len(recs),
		"products", len(e.productIDs),
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	close(e.stopChan)
	e.wg.Wait()

	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// streamWorker feeds one signed-transaction stream through the pipeline.
// Live updates and unfinished replays may deliver the same transaction;
// the pipeline tolerates that.
func (e *Engine) streamWorker(ctx context.Context, ch <-chan platform.SignedTransaction, stream string) {
	defer e.wg.Done()

	for {
		select {
		case <-e.stopChan:
			return
		case st, ok := <-ch:
			if !ok {
				e.logger.Debug("transaction stream closed", "stream", stream)
				return
			}
			e.handleSigned(ctx, st)
		}
	}
}

// entitlementsWorker drains the current-entitlements snapshot and
// reconciles tier and ownership from it.
func (e *Engine) entitlementsWorker(ctx context.Context) {
	defer e.wg.Done()

	ch := e.client.CurrentEntitlements(ctx)
	var txns []platform.Transaction

	for {
		select {
		case <-e.stopChan:
			return
		case st, ok := <-ch:
			if !ok {
				e.reconcileEntitlements(ctx, txns)
				return
			}
			txn, err := e.client.VerifyTransaction(ctx, st)
			if err != nil {
				e.logger.Warn("dropping unverifiable entitlement",
					"error", err,
				)
				continue
			}
			txns = append(txns, txn)
		}
	}
}

// ──────────────────────────────────────────────────
// Snapshot accessors
// ──────────────────────────────────────────────────

// State returns a point-in-time snapshot for UI binding.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := State{
		Phase: e.phase,
		Tier:  e.tier,
	}
	if e.sub != nil {
		sub := *e.sub
		s.Subscription = &sub
	}
	if len(e.ownedTxns) > 0 {
		seen := make(map[string]struct{}, len(e.ownedTxns))
		for _, pid := range e.ownedTxns {
			seen[pid] = struct{}{}
		}
		s.Owned = make([]string, 0, len(seen))
		for pid := range seen {
			s.Owned = append(s.Owned, pid)
		}
		sort.Strings(s.Owned)
	}
	return s
}

// CurrentTier returns the reconciled entitlement tier.
func (e *Engine) CurrentTier() tier.Tier {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tier
}

// Owns reports whether a non-consumable product is currently owned.
func (e *Engine) Owns(productID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ownsLocked(productID)
}

func (e *Engine) ownsLocked(productID string) bool {
	for _, pid := range e.ownedTxns {
		if pid == productID {
			return true
		}
	}
	return false
}

// Products returns the cached catalog, sorted ascending by price.
func (e *Engine) Products() []catalog.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.products.All()
}

// Product returns cached metadata for one product.
func (e *Engine) Product(productID string) (catalog.Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.products.Lookup(productID)
}

// SessionID returns the identifier generated for this engine instance.
func (e *Engine) SessionID() id.SessionID {
	return e.sessionID
}

// Plugins returns the plugin registry.
func (e *Engine) Plugins() *plugin.Registry {
	return e.plugins
}
