package repository

import (
	"strings"
	"testing"
)

// The ...Tx reads must lock the rows they return: a merge that read its
// roster without locks could rewrite a sign-in from a stale snapshot and
// silently lose a concurrent check-out.
func TestTransactionalReadsLockRows(t *testing.T) {
	locked := map[string]string{
		"event by id":     eventByIDLockQuery,
		"sign-in by id":   signInByIDLockQuery,
		"roster by event": rosterByEventLockQuery,
	}
	for name, q := range locked {
		if !strings.HasSuffix(strings.TrimSpace(q), "FOR UPDATE") {
			t.Errorf("%s: transactional read must lock, got %q", name, q)
		}
	}

	unlocked := map[string]string{
		"event by id":     eventByIDQuery,
		"sign-in by id":   signInByIDQuery,
		"roster by event": rosterByEventQuery,
	}
	for name, q := range unlocked {
		if strings.Contains(q, "FOR UPDATE") {
			t.Errorf("%s: pool read must not lock, got %q", name, q)
		}
	}
}
