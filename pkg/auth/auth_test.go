package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"lucas.silverio@example.com", "Lucas Silverio"},
		{"MARIA_clara-souza@example.com", "Maria Clara Souza"},
		{"ana@example.com", "Ana"},
		{"élio.dias@example.com", "Élio Dias"},
		{"@example.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayNameFromEmail(tt.email))
		})
	}
}

func TestAllowList(t *testing.T) {
	allow := NewAllowList([]string{" Ana@Example.com ", ""}, []string{"chefe@example.com"})

	assert.True(t, allow.Allowed("ana@example.com"))
	assert.True(t, allow.Allowed("chefe@example.com"))
	assert.False(t, allow.Allowed("intruso@example.com"))
	assert.False(t, allow.Allowed(""))
	assert.True(t, allow.IsAdmin("CHEFE@example.com"))
	assert.False(t, allow.IsAdmin("ana@example.com"))
}

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(NewAllowList([]string{"ana.souza@example.com"}, []string{"chefe@example.com"}), time.Hour)
	now := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, err := store.Login("intruso@example.com")
	assert.ErrorIs(t, err, ErrNotAllowed)

	session, err := store.Login("Ana.Souza@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ana.souza@example.com", session.Email)
	assert.Equal(t, "Ana Souza", session.DisplayName)
	assert.False(t, session.Admin)

	got, err := store.Get(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	store.Logout(session.Token)
	_, err = store.Get(session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	admin, err := store.Login("chefe@example.com")
	require.NoError(t, err)
	assert.True(t, admin.Admin)

	now = now.Add(2 * time.Hour)
	_, err = store.Get(admin.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	session := &Session{Email: "ana@example.com"}
	got, ok := FromContext(WithSession(context.Background(), session))
	require.True(t, ok)
	assert.Same(t, session, got)
}
