package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kekayan/runs-cli/internal/domain"
	"github.com/kekayan/runs-cli/internal/ports"
)

// MaxRunsToDisplay caps the run list after sorting.
const MaxRunsToDisplay = 8

// Session is the process-wide state surface the presentation layer reads.
// Readers get snapshot copies; only Orchestrator methods mutate it.
type Session struct {
	Credential   string
	User         *domain.User
	Repositories []domain.Repository
	Selected     domain.Selection
	LatestRuns   []domain.Run
	Loading      bool
	LastError    string
	LastRefresh  time.Time
}

// Orchestrator composes the vault, the OAuth controller, and the remote
// data service into the login, logout, load, and refresh operations. All
// session mutation is serialized on one mutex; network and storage I/O
// happens outside it.
type Orchestrator struct {
	vault    *Vault
	actions  ports.ActionsService
	oauth    *OAuthController
	settings ports.SettingsStore
	clock    ports.Clock

	mu            sync.Mutex
	session       Session
	requireStepUp bool
	refreshGen    uint64
}

func NewOrchestrator(vault *Vault, actions ports.ActionsService, oauth *OAuthController, settings ports.SettingsStore, clock ports.Clock) *Orchestrator {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Orchestrator{
		vault:    vault,
		actions:  actions,
		oauth:    oauth,
		settings: settings,
		clock:    clock,
		session:  Session{Selected: domain.Selection{}},
	}
}

// Snapshot returns a copy of the current session state.
func (o *Orchestrator) Snapshot() Session {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := o.session
	if o.session.User != nil {
		user := *o.session.User
		snapshot.User = &user
	}
	snapshot.Repositories = slices.Clone(o.session.Repositories)
	snapshot.LatestRuns = slices.Clone(o.session.LatestRuns)
	snapshot.Selected = o.session.Selected.Clone()

	return snapshot
}

// Login starts the delegated OAuth flow in the user's browser.
func (o *Orchestrator) Login() error {
	return o.oauth.BeginFlow()
}

// RestoreSavedState reloads the persisted selection and, when a credential
// is stored, restores the authenticated session.
func (o *Orchestrator) RestoreSavedState(ctx context.Context) error {
	settings, err := o.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	o.mu.Lock()
	o.session.Selected = settings.Selected.Clone()
	if o.session.Selected == nil {
		o.session.Selected = domain.Selection{}
	}
	o.requireStepUp = settings.RequireStepUp
	o.mu.Unlock()

	credential, err := o.vault.Retrieve(ctx, settings.RequireStepUp, "Unlock the stored GitHub credential")
	if err != nil {
		o.setError("authentication required")
		return err
	}
	if credential == "" {
		return nil
	}

	o.mu.Lock()
	o.session.Credential = credential
	o.mu.Unlock()

	return o.LoadInitialData(ctx)
}

// HandleOAuthCallback finishes a login: code exchange, credential storage,
// user fetch, and the initial repository load. Loading is cleared on every
// path; any failure leaves the session unauthenticated.
func (o *Orchestrator) HandleOAuthCallback(ctx context.Context, rawURL string) error {
	o.beginOperation()
	defer o.endOperation()

	credential, err := o.oauth.CompleteFlow(ctx, rawURL)
	if err != nil {
		o.failLogin(err)
		return err
	}

	if err := o.vault.Store(ctx, credential, o.vault.StepUpEnabled(ctx)); err != nil {
		o.failLogin(err)
		return err
	}

	o.mu.Lock()
	o.session.Credential = credential
	o.mu.Unlock()

	user, err := o.actions.FetchUser(ctx, credential)
	if err != nil {
		o.failLogin(err)
		return err
	}

	o.mu.Lock()
	o.session.User = &user
	o.mu.Unlock()

	if err := o.loadRepositories(ctx, credential); err != nil {
		o.failLogin(err)
		return err
	}

	return nil
}

// Logout purges the credential and resets every session field, including
// the persisted selection.
func (o *Orchestrator) Logout(ctx context.Context) error {
	vaultErr := o.vault.Delete(ctx)

	o.mu.Lock()
	o.session = Session{Selected: domain.Selection{}}
	o.requireStepUp = false
	o.mu.Unlock()

	settingsErr := o.settings.Clear(ctx)

	return errors.Join(vaultErr, settingsErr)
}

// LoadInitialData fetches the user and repositories, then refreshes runs
// when a selection exists. Requires a credential.
func (o *Orchestrator) LoadInitialData(ctx context.Context) error {
	credential := o.credential()
	if credential == "" {
		return domain.ErrNotAuthenticated
	}

	o.beginOperation()
	defer o.endOperation()

	user, err := o.actions.FetchUser(ctx, credential)
	if err != nil {
		return o.recordFetchError(ctx, "failed to load data", err)
	}

	o.mu.Lock()
	o.session.User = &user
	o.mu.Unlock()

	if err := o.loadRepositories(ctx, credential); err != nil {
		return o.recordFetchError(ctx, "failed to load repositories", err)
	}

	if o.selectionSize() > 0 {
		return o.RefreshRuns(ctx)
	}

	return nil
}

// RefreshRuns fetches the latest run for every selected repository,
// all-or-nothing, then sorts and truncates for display. A selection ID
// without a matching fetched repository is silently skipped. Overlapping
// refreshes are resolved by a generation counter: a refresh superseded by
// a newer one discards its result.
func (o *Orchestrator) RefreshRuns(ctx context.Context) error {
	credential := o.credential()
	if credential == "" {
		return nil
	}

	o.mu.Lock()
	if len(o.session.Selected) == 0 {
		o.session.LatestRuns = nil
		o.mu.Unlock()
		return nil
	}

	o.refreshGen++
	generation := o.refreshGen

	targets := make([]domain.Repository, 0, len(o.session.Selected))
	for _, repo := range o.session.Repositories {
		if o.session.Selected.Has(repo.ID) {
			targets = append(targets, repo)
		}
	}

	o.session.Loading = true
	o.session.LastError = ""
	o.mu.Unlock()

	runs, err := o.actions.FetchLatestRuns(ctx, targets, credential)

	o.mu.Lock()
	if generation != o.refreshGen {
		o.mu.Unlock()
		return nil
	}
	if err != nil {
		o.session.Loading = false
		o.mu.Unlock()

		if errors.Is(err, domain.ErrUnauthorized) {
			_ = o.Logout(ctx)
			return err
		}
		o.setError("failed to refresh runs: " + err.Error())
		return err
	}

	if len(runs) > MaxRunsToDisplay {
		runs = runs[:MaxRunsToDisplay]
	}
	o.session.LatestRuns = runs
	o.session.LastRefresh = o.clock.Now()
	o.session.Loading = false
	o.mu.Unlock()

	return nil
}

// ToggleRepositorySelection flips membership, persists the selection, and
// triggers an asynchronous refresh. Reports whether the repository is
// selected afterward.
func (o *Orchestrator) ToggleRepositorySelection(ctx context.Context, id domain.RepositoryID) (bool, error) {
	o.mu.Lock()
	selected := o.session.Selected.Toggle(id)
	snapshot := domain.Settings{
		Selected:      o.session.Selected.Clone(),
		RequireStepUp: o.requireStepUp,
	}
	o.mu.Unlock()

	if err := o.settings.Save(ctx, snapshot); err != nil {
		return selected, fmt.Errorf("save selection: %w", err)
	}

	go func() {
		_ = o.RefreshRuns(context.WithoutCancel(ctx))
	}()

	return selected, nil
}

// SetRequireStepUp persists the step-up preference.
func (o *Orchestrator) SetRequireStepUp(ctx context.Context, enabled bool) error {
	o.mu.Lock()
	o.requireStepUp = enabled
	snapshot := domain.Settings{
		Selected:      o.session.Selected.Clone(),
		RequireStepUp: enabled,
	}
	o.mu.Unlock()

	if err := o.settings.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save step-up preference: %w", err)
	}

	return nil
}

func (o *Orchestrator) RequireStepUp() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requireStepUp
}

func (o *Orchestrator) IsAuthenticated() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Credential != "" && o.session.User != nil
}

func (o *Orchestrator) SelectedRepositories() []domain.Repository {
	o.mu.Lock()
	defer o.mu.Unlock()

	selected := make([]domain.Repository, 0, len(o.session.Selected))
	for _, repo := range o.session.Repositories {
		if o.session.Selected.Has(repo.ID) {
			selected = append(selected, repo)
		}
	}

	return selected
}

func (o *Orchestrator) loadRepositories(ctx context.Context, credential string) error {
	repos, err := o.actions.FetchRepositories(ctx, credential)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.session.Repositories = repos
	o.mu.Unlock()

	return nil
}

// recordFetchError applies the propagation policy: unauthorized forces a
// logout, everything else becomes a dismissible session error.
func (o *Orchestrator) recordFetchError(ctx context.Context, prefix string, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		_ = o.Logout(ctx)
		return err
	}

	o.setError(prefix + ": " + err.Error())
	return err
}

func (o *Orchestrator) failLogin(err error) {
	o.mu.Lock()
	o.session.LastError = "login failed: " + err.Error()
	o.session.Credential = ""
	o.session.User = nil
	o.mu.Unlock()
}

func (o *Orchestrator) beginOperation() {
	o.mu.Lock()
	o.session.Loading = true
	o.session.LastError = ""
	o.mu.Unlock()
}

func (o *Orchestrator) endOperation() {
	o.mu.Lock()
	o.session.Loading = false
	o.mu.Unlock()
}

func (o *Orchestrator) setError(message string) {
	o.mu.Lock()
	o.session.LastError = message
	o.mu.Unlock()
}

func (o *Orchestrator) credential() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Credential
}

func (o *Orchestrator) selectionSize() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.session.Selected)
}
