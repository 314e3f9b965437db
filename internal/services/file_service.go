package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mixing-service/internal/models"
	"mixing-service/internal/storage"
	"mixing-service/internal/utils"
)

// Storage sections. The second path segment of every key is the owner ID.
const (
	SectionTracks   = "tracks"
	SectionComments = "comments"
	SectionFinals   = "finals"
)

const keyAttempts = 5

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StoredFile describes an upload after it has been written to the store.
type StoredFile struct {
	Key  string
	Name string
	Size int64
}

// FileService places uploads in the file store and guards private reads.
type FileService struct {
	store  storage.FileStore
	logger *zap.Logger
}

// NewFileService creates a FileService on top of store.
func NewFileService(store storage.FileStore, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{store: store, logger: logger}
}

// Save writes upload below section/owner and returns where it was stored.
// The key is the slugified file name; when it is taken a random suffix is
// inserted before the extension. A key is claimed by the create-only Put,
// so concurrent uploads of the same name never share a key.
func (s *FileService) Save(ctx context.Context, section string, ownerID uuid.UUID, upload Upload) (*StoredFile, error) {
	name := utils.SlugifyFilename(path.Base(strings.ReplaceAll(upload.Filename, "\\", "/")))
	if name == "" || name == "." {
		name = "file"
	}
	prefix := section + "/" + ownerID.String() + "/"

	candidate := name
	for i := 0; i < keyAttempts; i++ {
		if i > 0 {
			candidate = withSuffix(name, randomSuffix())
		}
		key := prefix + candidate
		if _, err := s.store.Stat(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotExist) {
			return nil, errors.Wrap(err, "check file key")
		}

		err := s.store.Put(ctx, key, upload.Reader, upload.Size, upload.ContentType)
		if err == nil {
			return &StoredFile{Key: key, Name: name, Size: upload.Size}, nil
		}
		if !errors.Is(err, storage.ErrExists) {
			return nil, errors.Wrap(err, "store upload")
		}
		if err := rewind(upload.Reader); err != nil {
			return nil, err
		}
	}
	return nil, errors.Errorf("no free key for %s after %d attempts", name, keyAttempts)
}

// rewind resets an upload after a Put lost the race for its key.
func rewind(r io.Reader) error {
	seeker, ok := r.(io.Seeker)
	if !ok {
		return errors.New("upload cannot be retried under another key")
	}
	_, err := seeker.Seek(0, io.SeekStart)
	return errors.Wrap(err, "rewind upload")
}

// Remove deletes the blobs behind keys. Failures are logged and skipped.
func (s *FileService) Remove(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Warn("failed to remove stored file", zap.String("key", key), zap.Error(err))
		}
	}
}

// CanAccess applies the private file rule: staff read everything, owners read
// their own comment attachments and final files but not raw tracks.
func CanAccess(user *models.User, key string) bool {
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 3 || parts[2] == "" {
		return false
	}
	switch parts[0] {
	case SectionComments, SectionFinals:
	default:
		return false
	}
	owner, err := uuid.Parse(parts[1])
	if err != nil {
		return false
	}
	return owner == user.ID
}

// Open returns a reader for key after checking that user may read it.
func (s *FileService) Open(ctx context.Context, user *models.User, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if !CanAccess(user, key) {
		return nil, storage.ObjectInfo{}, ErrForbidden
	}
	rc, info, err := s.store.Open(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	return rc, info, err
}

// OpenKey reads a blob without an access check, for server-side consumers.
func (s *FileService) OpenKey(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, _, err := s.store.Open(ctx, key)
	return rc, err
}

func withSuffix(name, suffix string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + suffix + ext
}

func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()[:8]
	}
	return hex.EncodeToString(b)
}
