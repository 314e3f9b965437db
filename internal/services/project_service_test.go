package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
	"mixing-service/internal/testsupport"
)

func TestCreateProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)

	project, err := f.projects.CreateProject(ctx, "  Debut EP ", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Debut EP", project.Title)
	assert.Equal(t, models.StatusFilesPending, project.Status)
	assert.True(t, project.Active)
	assert.Equal(t, models.DefaultPriority, project.Priority)

	var invalidErr *ValidationError
	_, err = f.projects.CreateProject(ctx, "", owner.ID)
	assert.True(t, errors.As(err, &invalidErr))
	_, err = f.projects.CreateProject(ctx, "Ghost", uuid.New())
	assert.True(t, errors.As(err, &invalidErr))
}

func TestSetStatusDerivesActiveAndPriority(t *testing.T) {
	tests := []struct {
		name         string
		from         models.ProjectStatus
		fromPriority int
		to           models.ProjectStatus
		wantActive   bool
		wantPriority int
	}{
		{"waiting", models.StatusInProgress, 4, models.StatusFilesPending, true, 10},
		{"revision waiting", models.StatusComplete, 10, models.StatusRevisionFilesPending, true, 10},
		{"start from default", models.StatusFilesPending, 10, models.StatusInProgress, false, 9},
		{"keep queue position", models.StatusInProgress, 3, models.StatusRevisionInProgress, false, 3},
		{"complete", models.StatusInProgress, 2, models.StatusComplete, false, 10},
		{"revision complete", models.StatusRevisionInProgress, 0, models.StatusRevisionComplete, false, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			owner := testsupport.CreateUser(t, f.db, "alice", false)
			tree := testsupport.CreateTree(t, f.db, owner, tt.from)
			require.NoError(t, f.db.Model(&models.Project{}).Where("id = ?", tree.Project.ID).
				Update("priority", tt.fromPriority).Error)

			project, err := f.projects.SetStatus(ctx, tree.Project.ID, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, project.Status)
			assert.Equal(t, tt.wantActive, project.Active)
			assert.Equal(t, tt.wantPriority, project.Priority)
		})
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var invalidErr *ValidationError
	_, err := f.projects.SetStatus(ctx, uuid.New(), models.ProjectStatus(9))
	assert.True(t, errors.As(err, &invalidErr))

	_, err = f.projects.SetStatus(ctx, uuid.New(), models.StatusComplete)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)

	project, err := f.projects.Submit(ctx, owner, tree.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, project.Status)
	assert.False(t, project.Active)
	assert.Equal(t, models.QueuedPriority, project.Priority)

	_, err = f.projects.SetPriority(ctx, tree.Project.ID, 2)
	require.NoError(t, err)

	again, err := f.projects.Submit(ctx, owner, tree.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, again.Status)
	assert.Equal(t, 2, again.Priority)
}

func TestSubmitRevisionAndNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	revision := testsupport.CreateTree(t, f.db, owner, models.StatusRevisionFilesPending)
	done := testsupport.CreateTree(t, f.db, owner, models.StatusComplete)

	project, err := f.projects.Submit(ctx, owner, revision.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRevisionInProgress, project.Status)

	project, err = f.projects.Submit(ctx, owner, done.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, project.Status)
	assert.Equal(t, models.DefaultPriority, project.Priority)

	other := testsupport.CreateUser(t, f.db, "bob", false)
	_, err = f.projects.Submit(ctx, other, revision.Project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPriority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	working := testsupport.CreateTree(t, f.db, owner, models.StatusInProgress)
	waiting := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)

	project, err := f.projects.SetPriority(ctx, working.Project.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, project.Priority)

	project, err = f.projects.SetPriority(ctx, working.Project.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, models.QueuedPriority, project.Priority)

	project, err = f.projects.SetPriority(ctx, waiting.Project.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPriority, project.Priority)

	var invalidErr *ValidationError
	_, err = f.projects.SetPriority(ctx, working.Project.ID, 11)
	assert.True(t, errors.As(err, &invalidErr))
}

func TestDeleteProjectRefundsTracks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	staff := testsupport.CreateUser(t, f.db, "engineer", true)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)
	testsupport.SetCredit(t, f.db, owner.ID, 3)

	f.addTrack(t, owner, tree.Group, "a.wav")
	f.addTrack(t, owner, tree.Group, "b.wav")
	_, err := f.comments.AddStaffComment(ctx, staff, tree.Project.ID, "see notes", ptr(upload("notes.txt", "notes")))
	require.NoError(t, err)
	require.Len(t, f.store.Keys(), 3)

	require.NoError(t, f.projects.DeleteProject(ctx, tree.Project.ID))
	assert.Equal(t, uint(3), testsupport.Credit(t, f.db, owner.ID))
	assert.Empty(t, f.store.Keys())

	_, err = repository.NewProjectRepository(f.db).GetProject(tree.Project.ID)
	assert.True(t, repository.IsNotFound(err))
	assert.ErrorIs(t, f.projects.DeleteProject(ctx, tree.Project.ID), ErrNotFound)
}

func TestQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testsupport.CreateUser(t, f.db, "alice", false)
	bob := testsupport.CreateUser(t, f.db, "bob", false)
	a := testsupport.CreateTree(t, f.db, alice, models.StatusInProgress)
	b := testsupport.CreateTree(t, f.db, bob, models.StatusInProgress)
	testsupport.CreateTree(t, f.db, bob, models.StatusFilesPending)
	_, err := f.projects.SetPriority(ctx, b.Project.ID, 1)
	require.NoError(t, err)

	queue, err := f.projects.Queue(ctx, repository.QueueFilter{Status: models.StatusInProgress})
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, b.Project.ID, queue[0].ID)
	assert.Equal(t, a.Project.ID, queue[1].ID)

	queue, err = f.projects.Queue(ctx, repository.QueueFilter{Search: "ALI"})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, a.Project.ID, queue[0].ID)

	var invalidErr *ValidationError
	_, err = f.projects.Queue(ctx, repository.QueueFilter{Status: 42})
	assert.True(t, errors.As(err, &invalidErr))
}

func TestProjectState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	staff := testsupport.CreateUser(t, f.db, "engineer", true)
	other := testsupport.CreateUser(t, f.db, "bob", false)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)
	testsupport.SetCredit(t, f.db, owner.ID, 2)
	f.addTrack(t, owner, tree.Group, "a.wav")
	_, err := f.comments.CreateComment(ctx, owner, tree.Project.ID, "hello", nil)
	require.NoError(t, err)

	state, err := f.projects.State(ctx, owner, tree.Project.ID)
	require.NoError(t, err)
	assert.Len(t, state.Songs, 1)
	assert.Len(t, state.Groups, 1)
	assert.Len(t, state.Tracks, 1)
	assert.Len(t, state.Comments, 1)
	assert.Equal(t, uint(1), state.TrackCredit)

	_, err = f.projects.State(ctx, staff, tree.Project.ID)
	assert.NoError(t, err)
	_, err = f.projects.State(ctx, other, tree.Project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// A customer with two credits uploads two tracks, is refused a third, submits
// and then cannot add more files.
func TestUploadSubmitScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)
	testsupport.SetCredit(t, f.db, owner.ID, 2)

	f.addTrack(t, owner, tree.Group, "one.wav")
	f.addTrack(t, owner, tree.Group, "two.wav")
	assert.Zero(t, testsupport.Credit(t, f.db, owner.ID))

	_, err := f.ledger.CreateTrack(ctx, owner, tree.Group.ID, upload("three.wav", "3"))
	assert.ErrorIs(t, err, ErrInsufficientCredit)

	project, err := f.projects.Submit(ctx, owner, tree.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, project.Status)
	assert.False(t, project.Active)
	assert.Equal(t, 9, project.Priority)

	testsupport.SetCredit(t, f.db, owner.ID, 1)
	_, err = f.ledger.CreateTrack(ctx, owner, tree.Group.ID, upload("four.wav", "4"))
	assert.ErrorIs(t, err, ErrProjectInactive)
	assert.Equal(t, uint(1), testsupport.Credit(t, f.db, owner.ID))
}

// Staff reopens a finished project for revision and the customer swaps a track.
func TestRevisionScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)
	testsupport.SetCredit(t, f.db, owner.ID, 1)
	track := f.addTrack(t, owner, tree.Group, "old.wav")

	_, err := f.projects.SetStatus(ctx, tree.Project.ID, models.StatusComplete)
	require.NoError(t, err)
	project, err := f.projects.SetStatus(ctx, tree.Project.ID, models.StatusRevisionFilesPending)
	require.NoError(t, err)
	assert.True(t, project.Active)

	require.NoError(t, f.ledger.DeleteTrack(ctx, owner, track.ID))
	assert.Equal(t, uint(1), testsupport.Credit(t, f.db, owner.ID))
	f.addTrack(t, owner, tree.Group, "new.wav")
	assert.Zero(t, testsupport.Credit(t, f.db, owner.ID))
}

func ptr[T any](v T) *T { return &v }
