package ledger

import (
	"context"
	"hosting-dashboard/internal/models"
	"sync"
	"time"
)

type credentialEntry struct {
	credential models.Credential
	expires    time.Time
}

type MemoryCredentialLedger struct {
	entries map[string]credentialEntry
	ttl     time.Duration
	now     func() time.Time
	mutex   sync.Mutex
}

func NewMemoryCredentialLedger(ttl time.Duration) *MemoryCredentialLedger {
	return &MemoryCredentialLedger{
		entries: make(map[string]credentialEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCredentialLedger) Advance(ctx context.Context, key string, credential models.Credential) (models.Credential, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	m.sweep(now)

	if entry, ok := m.entries[key]; ok && entry.credential.IssuedAt.After(credential.IssuedAt) {
		return copyCredential(entry.credential), false, nil
	}

	credential = copyCredential(credential)
	m.entries[key] = credentialEntry{credential: credential, expires: now.Add(m.ttl)}
	return copyCredential(credential), true, nil
}

func (m *MemoryCredentialLedger) Latest(ctx context.Context, key string) (models.Credential, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, ok := m.entries[key]
	if !ok || (m.ttl > 0 && !m.now().Before(entry.expires)) {
		return models.Credential{}, false, nil
	}
	return copyCredential(entry.credential), true, nil
}

func (m *MemoryCredentialLedger) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for key, entry := range m.entries {
		if !now.Before(entry.expires) {
			delete(m.entries, key)
		}
	}
}

func copyCredential(c models.Credential) models.Credential {
	c.User = c.User.Copy()
	return c
}
