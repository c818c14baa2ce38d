// Package session resolves the current portal user and owns the persisted
// account records. It is the only code that touches the "users" and "user"
// storage keys.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/patient-portal/internal/model"
	"github.com/jwalitptl/patient-portal/internal/store"
)

const (
	accountsKey = "users"
	sessionKey  = "user"
)

// Provider is the identity/session collaborator: it stores registration
// records and the single current-user session document.
type Provider struct {
	store *store.Store
}

func NewProvider(s *store.Store) *Provider {
	return &Provider{store: s}
}

// Accounts returns every registered account. Missing or corrupt data yields
// an empty slice, matching collection load semantics.
func (p *Provider) Accounts() ([]model.Account, error) {
	raw, ok, err := p.store.Get(accountsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	if !ok {
		return []model.Account{}, nil
	}

	var accounts []model.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		log.Warn().Err(err).Msg("discarding corrupt accounts document")
		return []model.Account{}, nil
	}
	return accounts, nil
}

func (p *Provider) saveAccounts(accounts []model.Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	if err := p.store.Put(accountsKey, raw); err != nil {
		return fmt.Errorf("failed to persist accounts: %w", err)
	}
	return nil
}

// FindByEmail looks up an account by its registered email.
func (p *Provider) FindByEmail(email string) (*model.Account, bool, error) {
	accounts, err := p.Accounts()
	if err != nil {
		return nil, false, err
	}
	for i := range accounts {
		if accounts[i].Email == email {
			return &accounts[i], true, nil
		}
	}
	return nil, false, nil
}

// FindByID looks up an account by user id.
func (p *Provider) FindByID(id uuid.UUID) (*model.Account, bool, error) {
	accounts, err := p.Accounts()
	if err != nil {
		return nil, false, err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], true, nil
		}
	}
	return nil, false, nil
}

// CreateAccount appends a new registration record. Email uniqueness is the
// caller's responsibility.
func (p *Provider) CreateAccount(account *model.Account) error {
	accounts, err := p.Accounts()
	if err != nil {
		return err
	}
	accounts = append(accounts, *account)
	return p.saveAccounts(accounts)
}

// UpdateAccount replaces the account with the same id, reporting whether a
// match was found.
func (p *Provider) UpdateAccount(account *model.Account) (bool, error) {
	accounts, err := p.Accounts()
	if err != nil {
		return false, err
	}
	for i := range accounts {
		if accounts[i].ID == account.ID {
			accounts[i] = *account
			if err := p.saveAccounts(accounts); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// CurrentUser returns the session user, or nil when nobody is logged in.
func (p *Provider) CurrentUser() (*model.User, error) {
	raw, ok, err := p.store.Get(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		log.Warn().Err(err).Msg("discarding corrupt session document")
		return nil, nil
	}
	return &user, nil
}

// SetCurrentUser persists the session user record.
func (p *Provider) SetCurrentUser(user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := p.store.Put(sessionKey, raw); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear removes the session document.
func (p *Provider) Clear() error {
	return p.store.Delete(sessionKey)
}

// SubscribeUserChanged fires fn whenever the session document changes.
func (p *Provider) SubscribeUserChanged(fn func()) func() {
	return p.store.Subscribe(sessionKey, fn)
}
