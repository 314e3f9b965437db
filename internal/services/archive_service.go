package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/archive"
	"mixing-service/internal/repository"
	"mixing-service/internal/utils"
)

// ProjectArchive is a zip download of all tracks of a project, laid out as
// <song>/<group>/<file>.
type ProjectArchive struct {
	Name    string
	entries []archive.Entry
}

// Len returns the number of files in the archive.
func (a *ProjectArchive) Len() int { return len(a.entries) }

// WriteTo streams the archive to w.
func (a *ProjectArchive) WriteTo(ctx context.Context, w io.Writer) error {
	return archive.WriteZip(ctx, w, a.entries)
}

type ArchiveService struct {
	db     *gorm.DB
	files  *FileService
	logger *zap.Logger
	now    func() time.Time
}

func NewArchiveService(db *gorm.DB, files *FileService, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{db: db, files: files, logger: logger, now: time.Now}
}

// PrepareArchive collects the tracks of a project. File contents are read
// lazily while the archive is written.
func (s *ArchiveService) PrepareArchive(ctx context.Context, projectID uuid.UUID) (*ProjectArchive, error) {
	db := s.db.WithContext(ctx)
	project, err := repository.NewProjectRepository(db).GetProject(projectID)
	if err != nil {
		return nil, notFound(err)
	}
	tracks, err := repository.NewTrackRepository(db).ListTracksByProject(projectID)
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, 0, len(tracks))
	for _, track := range tracks {
		key := track.FileKey
		songTitle, groupTitle := "", ""
		if track.Group != nil {
			groupTitle = track.Group.Title
			if track.Group.Song != nil {
				songTitle = track.Group.Song.Title
			}
		}
		entries = append(entries, archive.Entry{
			Path:    path.Join(utils.ToFolderName(songTitle), utils.ToFolderName(groupTitle), path.Base(key)),
			Size:    track.FileSize,
			ModTime: track.CreatedAt,
			Open: func() (io.ReadCloser, error) {
				return s.files.OpenKey(ctx, key)
			},
		})
	}

	name := fmt.Sprintf("%s %s.zip", utils.ToFolderName(project.Title), s.now().Format("2006-01-02 15-04-05"))
	s.logger.Debug("archive prepared", zap.String("project_id", projectID.String()), zap.Int("files", len(entries)))
	return &ProjectArchive{Name: name, entries: entries}, nil
}
