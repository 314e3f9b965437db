// Package testsupport builds in-memory fixtures for package tests.
package testsupport

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// The pool holds a single connection, so transactions run one at a time.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", uuid.NewString())
	return openTestDB(t, dsn, 1)
}

// NewSharedTestDB opens a file-backed SQLite database in WAL mode with a pool
// of several connections, so concurrent callers really overlap. Writers wait
// on each other through busy_timeout.
func NewSharedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mixing.db")
	dsn := "file:" + path + "?_txlock=immediate" +
		"&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)"
	return openTestDB(t, dsn, 8)
}

func openTestDB(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// CreateUser inserts a user with a unique token hash.
func CreateUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		IsStaff:   staff,
		TokenHash: uuid.NewString(),
	}
	require.NoError(t, repository.NewUserRepository(db).CreateUser(user))
	return user
}

// SetCredit stores an absolute balance for userID.
func SetCredit(t *testing.T, db *gorm.DB, userID uuid.UUID, credit uint) {
	t.Helper()
	profiles := repository.NewProfileRepository(db)
	require.NoError(t, profiles.EnsureProfile(userID))
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("track_credit", credit).Error)
}

// Credit returns the current balance of userID.
func Credit(t *testing.T, db *gorm.DB, userID uuid.UUID) uint {
	t.Helper()
	profile, err := repository.NewProfileRepository(db).GetProfile(userID)
	require.NoError(t, err)
	return profile.TrackCredit
}

// Tree is a project with one song and one group below it.
type Tree struct {
	Project *models.Project
	Song    *models.Song
	Group   *models.Group
}

// CreateTree inserts a project in status for owner with one song and group.
func CreateTree(t *testing.T, db *gorm.DB, owner *models.User, status models.ProjectStatus) Tree {
	t.Helper()
	project := models.NewProject("Debut Album", owner.ID)
	project.ApplyStatus(status)
	require.NoError(t, repository.NewProjectRepository(db).CreateProject(project))

	songs := repository.NewSongRepository(db)
	song := &models.Song{ProjectID: project.ID, Title: "Opening"}
	require.NoError(t, songs.CreateSong(song))
	group := &models.Group{SongID: song.ID, Title: "Drums"}
	require.NoError(t, songs.CreateGroup(group))

	return Tree{Project: project, Song: song, Group: group}
}
