package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

func TestArchiveSupportChatWritesRecord(t *testing.T) {
	dir := t.TempDir()
	archiver := NewFileArchiver(filepath.Join(dir, "closed"), zap.NewNop())

	now := time.Now()
	chat := &domain.SupportChat{
		ID:       "chat-1",
		UserID:   "user-1",
		Subject:  "Problema de pago",
		Status:   domain.SupportStatusClosed,
		ClosedAt: &now,
	}
	messages := []domain.SupportMessage{
		{ID: "m1", ChatID: "chat-1", SenderType: domain.SupportSenderUser, SenderID: "user-1", Content: "hola"},
		{ID: "m2", ChatID: "chat-1", SenderType: domain.SupportSenderModerator, SenderID: "mod-1", Content: "revisando"},
	}

	require.NoError(t, archiver.ArchiveSupportChat(chat, messages))

	entries, err := os.ReadDir(filepath.Join(dir, "closed"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "chat-1")

	data, err := os.ReadFile(filepath.Join(dir, "closed", entries[0].Name()))
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "chat-1", record.Chat.ID)
	assert.Len(t, record.Messages, 2)
	assert.False(t, record.ArchivedAt.IsZero())
}

func TestArchiveSupportChatEmptyTranscript(t *testing.T) {
	dir := t.TempDir()
	archiver := NewFileArchiver(dir, zap.NewNop())

	chat := &domain.SupportChat{ID: "chat-2", UserID: "user-1", Subject: "Sin respuesta", Status: domain.SupportStatusClosed}
	require.NoError(t, archiver.ArchiveSupportChat(chat, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
