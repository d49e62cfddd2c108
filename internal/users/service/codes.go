package service

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

const codeTTL = 10 * time.Minute

type pendingCode struct {
	phone   string
	code    string
	expires time.Time
}

// codeStore keeps the last verification code per user in memory.
type codeStore struct {
	mu    sync.Mutex
	codes map[uuid.UUID]pendingCode
	now   func() time.Time
}

func newCodeStore() *codeStore {
	return &codeStore{codes: make(map[uuid.UUID]pendingCode), now: time.Now}
}

func (s *codeStore) Issue(userID uuid.UUID, phone string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[userID] = pendingCode{phone: phone, code: code, expires: s.now().Add(codeTTL)}
	return code, nil
}

// Verify consumes the code on success.
func (s *codeStore) Verify(userID uuid.UUID, phone, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.codes[userID]
	if !ok || pending.phone != phone || s.now().After(pending.expires) {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(pending.code), []byte(code)) != 1 {
		return false
	}
	delete(s.codes, userID)
	return true
}
