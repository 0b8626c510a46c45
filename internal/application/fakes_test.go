package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kekayan/runs-cli/internal/domain"
)

type fakeSecretStore struct {
	mu     sync.Mutex
	values map[string]string

	getErr    error
	putErr    error
	deleteErr error
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{values: map[string]string{}}
}

func (f *fakeSecretStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		return "", fmt.Errorf("credential %q: %w", key, domain.ErrCredentialNotFound)
	}
	return value, nil
}

func (f *fakeSecretStore) Put(_ context.Context, key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeSecretStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.values, key)
	return nil
}

func (f *fakeSecretStore) stored(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok
}

type fakeStepUp struct {
	mu         sync.Mutex
	available  bool
	err        error
	challenges int
}

func (f *fakeStepUp) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeStepUp) Challenge(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.challenges++
	return f.err
}

func (f *fakeStepUp) challengeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.challenges
}

type fakeSettingsStore struct {
	mu       sync.Mutex
	settings domain.Settings

	loadErr error
	saveErr error

	saves  int
	clears int
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: domain.Settings{Selected: domain.Selection{}}}
}

func (f *fakeSettingsStore) Load(_ context.Context) (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return domain.Settings{}, f.loadErr
	}
	return domain.Settings{
		Selected:      f.settings.Selected.Clone(),
		RequireStepUp: f.settings.RequireStepUp,
	}, nil
}

func (f *fakeSettingsStore) Save(_ context.Context, settings domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.settings = domain.Settings{
		Selected:      settings.Selected.Clone(),
		RequireStepUp: settings.RequireStepUp,
	}
	return nil
}

func (f *fakeSettingsStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.settings = domain.Settings{Selected: domain.Selection{}}
	return nil
}

func (f *fakeSettingsStore) current() domain.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.Settings{
		Selected:      f.settings.Selected.Clone(),
		RequireStepUp: f.settings.RequireStepUp,
	}
}

type fakeActionsService struct {
	mu sync.Mutex

	user  domain.User
	repos []domain.Repository
	runs  map[domain.RepositoryID]*domain.Run

	userErr  error
	reposErr error
	runsErr  error

	runsCalls   int
	lastTargets []domain.Repository
	block       chan struct{}
}

func newFakeActionsService() *fakeActionsService {
	return &fakeActionsService{
		user: domain.User{ID: 1, Login: "octocat", Name: "Octo Cat"},
		runs: map[domain.RepositoryID]*domain.Run{},
	}
}

func (f *fakeActionsService) FetchUser(_ context.Context, _ string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return domain.User{}, f.userErr
	}
	return f.user, nil
}

func (f *fakeActionsService) FetchRepositories(_ context.Context, _ string) ([]domain.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reposErr != nil {
		return nil, f.reposErr
	}
	return append([]domain.Repository(nil), f.repos...), nil
}

func (f *fakeActionsService) FetchLatestRun(_ context.Context, repo domain.Repository, _ string) (*domain.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runsErr != nil {
		return nil, f.runsErr
	}
	return f.runs[repo.ID], nil
}

func (f *fakeActionsService) FetchLatestRuns(_ context.Context, repos []domain.Repository, _ string) ([]domain.Run, error) {
	f.mu.Lock()
	block := f.block
	f.runsCalls++
	f.lastTargets = append([]domain.Repository(nil), repos...)
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runsErr != nil {
		return nil, f.runsErr
	}

	runs := make([]domain.Run, 0, len(repos))
	for _, repo := range repos {
		if run := f.runs[repo.ID]; run != nil {
			runs = append(runs, *run)
		}
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}

type fakeOAuthFlow struct {
	authURL     string
	authErr     error
	token       string
	exchangeErr error

	mu        sync.Mutex
	lastCode  string
	exchanges int
}

func (f *fakeOAuthFlow) AuthorizationURL() (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	if f.authURL == "" {
		return "https://github.com/login/oauth/authorize?client_id=client-1", nil
	}
	return f.authURL, nil
}

func (f *fakeOAuthFlow) ExchangeCode(_ context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges++
	f.lastCode = code
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

type fakeBrowser struct {
	mu    sync.Mutex
	urls  []string
	err   error
	opens int
}

func (f *fakeBrowser) Open(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	f.urls = append(f.urls, url)
	return f.err
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
