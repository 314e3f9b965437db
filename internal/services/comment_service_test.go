package services

import (
	"context"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixing-service/internal/models"
	"mixing-service/internal/testsupport"
)

func TestOwnerComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	other := testsupport.CreateUser(t, f.db, "bob", false)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)

	comment, err := f.comments.CreateComment(ctx, owner, tree.Project.ID, "more bass", ptr(upload("Ref Mix.mp3", "ref")))
	require.NoError(t, err)
	assert.Equal(t, "comments/"+owner.ID.String()+"/ref-mix.mp3", comment.AttachmentKey)
	assert.Equal(t, "/files/comments/"+owner.ID.String()+"/ref-mix.mp3", comment.Attachment().URL)

	_, err = f.comments.CreateComment(ctx, other, tree.Project.ID, "hi", nil)
	assert.ErrorIs(t, err, ErrNotOwner)

	var invalidErr *ValidationError
	_, err = f.comments.CreateComment(ctx, owner, tree.Project.ID, "  ", nil)
	assert.True(t, errors.As(err, &invalidErr))

	updated, err := f.comments.UpdateComment(ctx, owner, comment.ID, "less bass")
	require.NoError(t, err)
	assert.Equal(t, "less bass", updated.Content)

	listed, err := f.comments.ListComments(ctx, owner, &tree.Project.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0].Author.Username)

	_, err = f.comments.GetComment(ctx, other, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.comments.DeleteComment(ctx, owner, comment.ID))
	assert.Empty(t, f.store.Keys())
}

func TestCommentsOnInactiveProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	staff := testsupport.CreateUser(t, f.db, "engineer", true)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusFilesPending)
	comment, err := f.comments.CreateComment(ctx, owner, tree.Project.ID, "first", nil)
	require.NoError(t, err)

	_, err = f.projects.SetStatus(ctx, tree.Project.ID, models.StatusInProgress)
	require.NoError(t, err)

	_, err = f.comments.CreateComment(ctx, owner, tree.Project.ID, "second", nil)
	assert.ErrorIs(t, err, ErrProjectInactive)
	_, err = f.comments.UpdateComment(ctx, owner, comment.ID, "edit")
	assert.ErrorIs(t, err, ErrProjectInactive)
	assert.ErrorIs(t, f.comments.DeleteComment(ctx, owner, comment.ID), ErrProjectInactive)

	staffComment, err := f.comments.AddStaffComment(ctx, staff, tree.Project.ID, "working on it", nil)
	require.NoError(t, err)
	assert.Nil(t, staffComment.Attachment())

	all, err := f.comments.ListProjectComments(ctx, tree.Project.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFinalFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testsupport.CreateUser(t, f.db, "alice", false)
	tree := testsupport.CreateTree(t, f.db, owner, models.StatusComplete)

	final, err := f.comments.UploadFinalFile(ctx, tree.Project.ID, "Master v1", upload("master.wav", "master"))
	require.NoError(t, err)
	assert.Equal(t, "finals/"+owner.ID.String()+"/master.wav", final.FileKey)
	assert.Equal(t, "Master v1", final.DisplayName())

	rc, _, err := f.files.Open(ctx, owner, final.FileKey)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "master", string(data))

	finals, err := f.comments.ListFinalFiles(ctx, tree.Project.ID)
	require.NoError(t, err)
	assert.Len(t, finals, 1)

	require.NoError(t, f.comments.DeleteFinalFile(ctx, final.ID))
	assert.Empty(t, f.store.Keys())
	assert.ErrorIs(t, f.comments.DeleteFinalFile(ctx, final.ID), ErrNotFound)
}
