package directory_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	directory "github.com/userfactory/go-directory"
)

// MockConfig implements directory.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetContextKey").Return("directory_session")
	mockConfig.On("GetTokenExpiration").Return(24)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	return mockConfig
}

// memAccounts is an in-memory directory.Accounts used to exercise the
// policy layer without a database. It mirrors the store contract:
// lookups return revoked records, Create enforces login uniqueness, and
// records are copied on the way in and out so callers cannot mutate the
// store through returned pointers.
type memAccounts struct {
	mu      sync.Mutex
	records []*directory.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{}
}

func (s *memAccounts) Create(_ context.Context, record *directory.Account) (*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Login == record.Login {
			return nil, directory.ErrLoginTaken
		}
	}

	stored := *record
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.records = append(s.records, &stored)

	out := stored
	return &out, nil
}

func (s *memAccounts) GetByID(_ context.Context, id uuid.UUID) (*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.ID == id {
			out := *record
			return &out, nil
		}
	}
	return nil, directory.ErrAccountNotFound
}

func (s *memAccounts) GetByLogin(_ context.Context, login string) (*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Login == login {
			out := *record
			return &out, nil
		}
	}
	return nil, directory.ErrAccountNotFound
}

func (s *memAccounts) LoginExists(_ context.Context, login string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Login == login {
			return true, nil
		}
	}
	return false, nil
}

func (s *memAccounts) Update(_ context.Context, record *directory.Account) (*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.records {
		if existing.ID == record.ID {
			stored := *record
			s.records[i] = &stored

			out := stored
			return &out, nil
		}
	}
	return nil, directory.ErrAccountNotFound
}

func (s *memAccounts) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return directory.ErrAccountNotFound
}

func (s *memAccounts) ListAll(_ context.Context) ([]*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*directory.Account, len(s.records))
	for i, record := range s.records {
		copied := *record
		out[i] = &copied
	}
	return out, nil
}

func (s *memAccounts) ListActive(_ context.Context) ([]*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*directory.Account
	for _, record := range s.records {
		if record.RevokedAt == nil {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memAccounts) ListBornBefore(_ context.Context, cutoff time.Time) ([]*directory.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*directory.Account
	for _, record := range s.records {
		if record.Birthday != nil && !record.Birthday.After(cutoff) {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}

var _ directory.Accounts = (*memAccounts)(nil)

// plainHasher is a directory.PasswordAuthenticator that skips bcrypt so
// policy tests stay fast. The bcrypt verifier has its own tests.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", directory.ErrNoEmptyString
	}
	return "plain$" + password, nil
}

func (plainHasher) ComparePasswordAndHash(password, hash string) error {
	if hash != "plain$"+password {
		return directory.ErrMismatchedHashAndPassword
	}
	return nil
}

var _ directory.PasswordAuthenticator = plainHasher{}

// nopLogger silences policy logging in tests
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var testClock = func() time.Time {
	return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func newTestPolicy(store directory.Accounts) *directory.Policy {
	return directory.NewPolicy(store,
		directory.WithPasswordAuthenticator(plainHasher{}),
		directory.WithPolicyClock(testClock),
		directory.WithPolicyLogger(nopLogger{}),
	)
}

func mustSeedAccount(store *memAccounts, account *directory.Account) *directory.Account {
	if account.PasswordHash == "" {
		account.PasswordHash = "plain$password123"
	}
	created, err := store.Create(context.Background(), account)
	if err != nil {
		panic(err)
	}
	return created
}
