package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// Archiver writes closed support chats somewhere durable outside the
// database.
type Archiver interface {
	ArchiveSupportChat(chat *domain.SupportChat, messages []domain.SupportMessage) error
}

// Record is the on-disk shape of an archived chat.
type Record struct {
	Chat       *domain.SupportChat     `json:"chat"`
	Messages   []domain.SupportMessage `json:"messages"`
	ArchivedAt time.Time               `json:"archived_at"`
}

type fileArchiver struct {
	dir    string
	logger *zap.Logger
}

// NewFileArchiver writes one JSON file per closed chat under dir. The
// directory is created on first use.
func NewFileArchiver(dir string, logger *zap.Logger) Archiver {
	return &fileArchiver{dir: dir, logger: logger}
}

func (a *fileArchiver) ArchiveSupportChat(chat *domain.SupportChat, messages []domain.SupportMessage) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	record := Record{Chat: chat, Messages: messages, ArchivedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive record: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", record.ArchivedAt.Format("20060102-150405"), chat.ID)
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}

	a.logger.Info("support chat archived",
		zap.String("chat_id", chat.ID),
		zap.String("path", path))
	return nil
}
