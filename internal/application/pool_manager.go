package application

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Balance fetches during a reload fan out concurrently, capped so a creator
// with many pools cannot exhaust sockets on the remote service.
const balanceFetchLimit = 8

// PoolManager owns the client-side pool collection and the selected pool,
// and orchestrates every operation against the remote gateway. Failures
// never escape to the caller: each path ends in a categorized notification
// and a safe local state, with the server treated as the source of truth
// after every mutation.
type PoolManager struct {
	gateway  ports.Gateway
	sessions ports.SessionRepository
	notifier ports.Notifier
	prompter ports.Prompter
	clock    ports.Clock
	log      *zap.Logger
	creator  string

	mu          sync.Mutex
	pools       []domain.Pool
	selected    domain.PoolID
	totalPools  int
	activePools int
	loaded      bool
	generation  uint64
}

func NewPoolManager(
	gateway ports.Gateway,
	sessions ports.SessionRepository,
	notifier ports.Notifier,
	prompter ports.Prompter,
	clock ports.Clock,
	log *zap.Logger,
	session domain.WalletSession,
) *PoolManager {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &PoolManager{
		gateway:  gateway,
		sessions: sessions,
		notifier: notifier,
		prompter: prompter,
		clock:    clock,
		log:      log,
		creator:  session.Address,
		selected: session.SelectedPool,
	}
}

// Snapshot is a consistent read of the manager's state for rendering.
type Snapshot struct {
	Pools       []domain.Pool
	Selected    domain.PoolID
	TotalPools  int
	ActivePools int
	Now         time.Time
}

func (m *PoolManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	pools := make([]domain.Pool, len(m.pools))
	copy(pools, m.pools)

	return Snapshot{
		Pools:       pools,
		Selected:    m.selected,
		TotalPools:  m.totalPools,
		ActivePools: m.activePools,
		Now:         m.clock.Now(),
	}
}

func (m *PoolManager) Selected() (domain.Pool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.selectedLocked()
}

func (m *PoolManager) selectedLocked() (domain.Pool, bool) {
	if m.selected == "" {
		return domain.Pool{}, false
	}
	for _, pool := range m.pools {
		if pool.ID == m.selected {
			return pool, true
		}
	}
	return domain.Pool{}, false
}

// Reset invalidates in-flight work and drops the local collection. Called on
// wallet disconnect; results of requests started before the reset are
// discarded by the generation check when they try to commit.
func (m *PoolManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.pools = nil
	m.selected = ""
	m.totalPools = 0
	m.activePools = 0
	m.loaded = false
}

// LoadPools replaces the local collection wholesale with the server's view,
// fetching each pool's balance through a bounded fan-out. On failure the
// collection is cleared and the error reported; nothing propagates.
func (m *PoolManager) LoadPools(ctx context.Context) {
	if m.creator == "" {
		m.commit(m.snapshotGeneration(), nil)
		return
	}

	gen := m.snapshotGeneration()

	pools, err := m.gateway.ListPools(ctx, m.creator)
	if err != nil {
		m.log.Error("load pools", zap.String("creator", m.creator), zap.Error(err))
		m.notifier.Error("Load Failed", "Error loading pools: "+err.Error())
		m.commit(gen, nil)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(balanceFetchLimit)
	for i := range pools {
		g.Go(func() error {
			pools[i].Balance = m.FetchBalance(gctx, pools[i].ID)
			return nil
		})
	}
	_ = g.Wait()

	m.commit(gen, pools)
}

// FetchBalance returns the pool's effective balance, or nil when the fetch
// fails. Failures are logged, not surfaced; the caller decides whether the
// user hears about it.
func (m *PoolManager) FetchBalance(ctx context.Context, id domain.PoolID) *float64 {
	balance, err := m.gateway.PoolBalance(ctx, id, m.creator)
	if err != nil {
		m.log.Warn("fetch balance", zap.String("pool", string(id)), zap.Error(err))
		return nil
	}
	return &balance
}

func (m *PoolManager) CreatePool(ctx context.Context, draft domain.PoolDraft) {
	if verr := draft.Validate(true); verr != nil {
		m.notifier.Error(verr.Title, verr.Detail)
		return
	}

	req := ports.CreatePoolRequest{
		Name:           draft.Name,
		Password:       draft.Password,
		StartTime:      domain.LocalToZulu(draft.Start),
		EndTime:        domain.LocalToZulu(draft.End),
		UsageCap:       draft.UsageCap,
		Whitelist:      draft.Whitelist,
		CreatorAddress: m.creator,
		SponsorInfo:    draft.SponsorInfo,
	}

	if err := m.gateway.CreatePool(ctx, req); err != nil {
		m.notifier.Error("Creation Failed", "Error creating pool: "+err.Error())
		return
	}

	m.mu.Lock()
	m.totalPools++
	m.mu.Unlock()

	m.notifier.Success("Pool Created", fmt.Sprintf("Pool %q has been created successfully", draft.Name))
	m.LoadPools(ctx)

	// Best effort: adopt the new pool by name. On a name collision the first
	// entry in server enumeration order wins; a miss leaves the previous
	// selection alone.
	for _, pool := range m.Snapshot().Pools {
		if pool.Name == draft.Name {
			m.adoptSelection(ctx, pool)
			break
		}
	}
}

func (m *PoolManager) EditPool(ctx context.Context, draft domain.PoolDraft) {
	selected, ok := m.ensureSelected(ctx, "Please select a pool to edit")
	if !ok {
		return
	}

	password, err := m.prompter.Password(ctx, "Enter the pool password to confirm changes")
	if err != nil {
		m.notifier.Error("Password Required", "Password required to edit pool")
		return
	}

	if verr := draft.Validate(false); verr != nil {
		m.notifier.Error(verr.Title, verr.Detail)
		return
	}

	req := ports.EditPoolRequest{
		Name:           draft.Name,
		StartTime:      domain.LocalToZulu(draft.Start),
		EndTime:        domain.LocalToZulu(draft.End),
		UsageCap:       draft.UsageCap,
		Whitelist:      draft.Whitelist,
		CreatorAddress: m.creator,
		SponsorInfo:    draft.SponsorInfo,
	}

	if err := m.gateway.EditPool(ctx, selected.ID, password, req); err != nil {
		m.notifier.Error("Update Failed", "Error updating pool: "+err.Error())
		return
	}

	m.notifier.Success("Pool Updated", fmt.Sprintf("Pool %q has been updated successfully", draft.Name))
	m.LoadPools(ctx)
	m.applyBalance(ctx, selected.ID)
}

func (m *PoolManager) DeletePool(ctx context.Context) {
	selected, ok := m.ensureSelected(ctx, "Please select a pool to delete")
	if !ok {
		return
	}

	confirmed, err := m.prompter.Confirm(ctx, "Are you sure you want to delete this pool? This action cannot be undone.")
	if err != nil || !confirmed {
		return
	}

	password, err := m.prompter.Password(ctx, "Enter the pool password to confirm deletion")
	if err != nil {
		m.notifier.Error("Password Required", "Password is required to delete the pool")
		return
	}

	if err := m.gateway.DeletePool(ctx, selected.ID, password, m.creator); err != nil {
		m.notifier.Error("Deletion Failed", "Error deleting pool: "+err.Error())
		return
	}

	m.mu.Lock()
	m.selected = ""
	if m.totalPools > 0 {
		m.totalPools--
	}
	m.mu.Unlock()
	m.persistSelection(ctx, "")

	m.notifier.Success("Pool Deleted", fmt.Sprintf("Pool %q has been deleted successfully", selected.Name))
	m.LoadPools(ctx)
}

func (m *PoolManager) RevokeAccess(ctx context.Context, revokeAddress string) {
	if revokeAddress == "" {
		m.notifier.Error("Invalid Address", "Please enter a valid wallet address")
		return
	}
	if !domain.IsValidArweaveAddress(revokeAddress) {
		m.notifier.Error("Invalid Address", "Please enter a valid Arweave address")
		return
	}

	selected, ok := m.ensureSelected(ctx, "Please select a pool first")
	if !ok {
		return
	}

	password, err := m.prompter.Password(ctx, "Enter the pool password to revoke access")
	if err != nil {
		m.notifier.Error("Password Required", "Password required to revoke access")
		return
	}

	if err := m.gateway.RevokeAccess(ctx, selected.ID, password, m.creator, revokeAddress); err != nil {
		m.notifier.Error("Revoke Failed", "Error revoking access: "+err.Error())
		return
	}

	m.notifier.Success("Access Revoked", "Successfully revoked access for "+domain.TruncateAddress(revokeAddress))
	m.LoadPools(ctx)
}

// DownloadWallet fetches the pool's key file and writes it to outputPath,
// defaulting to pool-<id>-wallet.json in the working directory.
func (m *PoolManager) DownloadWallet(ctx context.Context, outputPath string) {
	selected, ok := m.ensureSelected(ctx, "Please select a pool first")
	if !ok {
		return
	}

	password, err := m.prompter.Password(ctx, "Enter the pool password to download wallet")
	if err != nil {
		m.notifier.Error("Password Required", "Password required to download wallet")
		return
	}

	wallet, err := m.gateway.PoolWallet(ctx, selected.ID, password, m.creator)
	if err != nil {
		m.notifier.Error("Download Failed", "Error downloading wallet: "+err.Error())
		return
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("pool-%s-wallet.json", selected.ID)
	}

	pretty, err := prettyJSON(wallet)
	if err != nil {
		m.notifier.Error("Download Failed", "Error encoding wallet key file: "+err.Error())
		return
	}
	if err := os.WriteFile(outputPath, pretty, 0o600); err != nil {
		m.notifier.Error("Download Failed", "Error writing wallet key file: "+err.Error())
		return
	}

	m.notifier.Success("Wallet Downloaded", "Pool wallet key file has been saved to "+outputPath)
}

func (m *PoolManager) TopUp(ctx context.Context) {
	selected, ok := m.ensureSelected(ctx, "Please select a pool first")
	if !ok {
		return
	}

	password, err := m.prompter.Password(ctx, "Enter the pool password to top up")
	if err != nil {
		m.notifier.Error("Password Required", "Password required to top up pool")
		return
	}

	amount, err := m.prompter.Amount(ctx, "Enter AR amount to top up")
	if err != nil || amount <= 0 {
		m.notifier.Error("Invalid Amount", "Amount must be greater than 0")
		return
	}

	transactionID, err := m.gateway.TopUp(ctx, selected.ID, m.creator, password, amount)
	if err != nil {
		m.notifier.Error("Top Up Failed", "Error topping up pool: "+err.Error())
		return
	}

	m.notifier.Success("Pool Topped Up", "Pool topped up successfully! Transaction ID: "+transactionID)
	m.applyBalance(ctx, selected.ID)
}

// SponsorCredits walks the whitelist strictly in order, one request per
// address, and never aborts on a single failure: a bad address must not
// block sponsoring the rest. The aggregate outcome is reported as full
// success, partial success, or total failure, and the balance refreshes
// regardless.
func (m *PoolManager) SponsorCredits(ctx context.Context) {
	selected, ok := m.ensureSelected(ctx, "Please select a pool first")
	if !ok {
		return
	}

	password, err := m.prompter.Password(ctx, "Enter the pool password to sponsor credits")
	if err != nil {
		m.notifier.Error("Password Required", "Password required to sponsor credits")
		return
	}

	if len(selected.Whitelist) == 0 {
		m.notifier.Error("No Addresses", "No whitelisted addresses to sponsor credits for")
		return
	}

	successful := 0
	var failures []string
	for _, address := range selected.Whitelist {
		if err := m.gateway.ShareCredits(ctx, selected.ID, address, password); err != nil {
			failure := fmt.Sprintf("Failed to sponsor credits for %s: %s", domain.TruncateAddress(address), err.Error())
			m.log.Warn("share credits", zap.String("pool", string(selected.ID)), zap.String("address", address), zap.Error(err))
			failures = append(failures, failure)
			continue
		}
		successful++
	}

	switch {
	case successful > 0 && len(failures) == 0:
		m.notifier.Success("Credits Sponsored",
			fmt.Sprintf("Successfully sponsored credits to %d of %d addresses", successful, len(selected.Whitelist)))
	case successful > 0:
		m.notifier.Warning("Partial Success",
			fmt.Sprintf("Successfully sponsored credits to %d of %d addresses. Errors: %s",
				successful, len(selected.Whitelist), joinErrors(failures)))
	default:
		m.notifier.Error("Sponsor Failed", "No credits sponsored. Errors: "+joinErrors(failures))
	}

	m.applyBalance(ctx, selected.ID)
}

func (m *PoolManager) RefreshBalance(ctx context.Context) {
	selected, ok := m.ensureSelected(ctx, "Please select a pool first")
	if !ok {
		return
	}

	if balance := m.FetchBalance(ctx, selected.ID); balance != nil {
		m.setBalance(selected.ID, balance)
		m.notifier.Success("Balance Refreshed", fmt.Sprintf("Balance for pool %q has been updated", selected.Name))
	}
}

// SelectPool resolves selector as a pool id first, then as a name (first
// match in enumeration order), and persists the selection.
func (m *PoolManager) SelectPool(ctx context.Context, selector string) {
	m.ensureLoaded(ctx)

	snapshot := m.Snapshot()
	var target *domain.Pool
	for i := range snapshot.Pools {
		if string(snapshot.Pools[i].ID) == selector {
			target = &snapshot.Pools[i]
			break
		}
	}
	if target == nil {
		for i := range snapshot.Pools {
			if snapshot.Pools[i].Name == selector {
				target = &snapshot.Pools[i]
				break
			}
		}
	}
	if target == nil {
		m.notifier.Error("Pool Not Found", fmt.Sprintf("No pool matches %q", selector))
		return
	}

	m.adoptSelection(ctx, *target)
	m.notifier.Info("Pool Selected", fmt.Sprintf("Selected pool %q (%s)", target.Name, target.ID))
}

func (m *PoolManager) adoptSelection(ctx context.Context, pool domain.Pool) {
	m.mu.Lock()
	m.selected = pool.ID
	m.mu.Unlock()
	m.persistSelection(ctx, pool.ID)

	if pool.Balance == nil {
		if balance := m.FetchBalance(ctx, pool.ID); balance != nil {
			m.setBalance(pool.ID, balance)
		}
	}
}

// ensureSelected loads the collection if needed and gates on a selection,
// reporting title when there is none.
func (m *PoolManager) ensureSelected(ctx context.Context, detail string) (domain.Pool, bool) {
	m.ensureLoaded(ctx)

	selected, ok := m.Selected()
	if !ok {
		m.notifier.Error("No Pool Selected", detail)
		return domain.Pool{}, false
	}
	return selected, true
}

func (m *PoolManager) ensureLoaded(ctx context.Context) {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()

	if !loaded {
		m.LoadPools(ctx)
	}
}

func (m *PoolManager) applyBalance(ctx context.Context, id domain.PoolID) {
	if balance := m.FetchBalance(ctx, id); balance != nil {
		m.setBalance(id, balance)
	}
}

// setBalance is the one optimistic local write kept: patching a single
// pool's balance, where the server offers no cheaper read than the fetch
// that just happened.
func (m *PoolManager) setBalance(id domain.PoolID, balance *float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.pools {
		if m.pools[i].ID == id {
			m.pools[i].Balance = balance
			break
		}
	}
}

func (m *PoolManager) snapshotGeneration() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// commit replaces the collection and recomputes counts, unless the session
// generation moved on while the load was in flight.
func (m *PoolManager) commit(gen uint64, pools []domain.Pool) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		return
	}

	active := 0
	for _, pool := range pools {
		if pool.Status(now) == domain.PoolStatusActive {
			active++
		}
	}

	m.pools = pools
	m.totalPools = len(pools)
	m.activePools = active
	m.loaded = true
}

func (m *PoolManager) persistSelection(ctx context.Context, id domain.PoolID) {
	if m.sessions == nil {
		return
	}

	session, err := m.sessions.Load(ctx)
	if err != nil {
		m.log.Warn("load session for selection", zap.Error(err))
		return
	}
	session.SelectedPool = id
	if err := m.sessions.Save(ctx, session); err != nil {
		m.log.Warn("persist selection", zap.Error(err))
	}
}

func prettyJSON(raw json.RawMessage) ([]byte, error) {
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return json.MarshalIndent(out, "", "  ")
}

func joinErrors(failures []string) string {
	joined := ""
	for i, failure := range failures {
		if i > 0 {
			joined += "; "
		}
		joined += failure
	}
	return joined
}
