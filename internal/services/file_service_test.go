package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixing-service/internal/models"
)

func TestSaveAvoidsCollisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	first, err := f.files.Save(ctx, SectionTracks, owner, upload("C:\\Audio\\Lead Vox.wav", "a"))
	require.NoError(t, err)
	assert.Equal(t, "tracks/"+owner.String()+"/lead-vox.wav", first.Key)
	assert.Equal(t, "lead-vox.wav", first.Name)

	second, err := f.files.Save(ctx, SectionTracks, owner, upload("lead vox.wav", "b"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
	assert.True(t, strings.HasPrefix(second.Key, "tracks/"+owner.String()+"/lead-vox_"))
	assert.True(t, strings.HasSuffix(second.Key, ".wav"))

	empty, err := f.files.Save(ctx, SectionComments, owner, upload("???", "c"))
	require.NoError(t, err)
	assert.Equal(t, "comments/"+owner.String()+"/file", empty.Key)
}

func TestCanAccess(t *testing.T) {
	owner := &models.User{ID: uuid.New()}
	other := &models.User{ID: uuid.New()}
	staff := &models.User{ID: uuid.New(), IsStaff: true}
	own := func(section string) string { return section + "/" + owner.ID.String() + "/mix.wav" }

	tests := []struct {
		name string
		user *models.User
		key  string
		want bool
	}{
		{"staff reads tracks", staff, own(SectionTracks), true},
		{"owner reads comment attachment", owner, own(SectionComments), true},
		{"owner reads final file", owner, own(SectionFinals), true},
		{"owner cannot read raw track", owner, own(SectionTracks), false},
		{"other user", other, own(SectionFinals), false},
		{"anonymous", nil, own(SectionFinals), false},
		{"malformed owner", owner, "finals/not-a-uuid/mix.wav", false},
		{"missing file name", owner, "finals/" + owner.ID.String() + "/", false},
		{"unknown section", owner, "secret/" + owner.ID.String() + "/mix.wav", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.user, tt.key))
		})
	}
}

func TestOpenChecksAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := &models.User{ID: uuid.New()}

	stored, err := f.files.Save(ctx, SectionTracks, owner.ID, upload("kick.wav", "kick"))
	require.NoError(t, err)

	_, _, err = f.files.Open(ctx, owner, stored.Key)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.files.Open(ctx, owner, "finals/"+owner.ID.String()+"/missing.wav")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.files.Open(ctx, owner, "finals/../tracks/"+owner.ID.String()+"/kick.wav")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSaveRetriesWhenKeyIsTakenConcurrently(t *testing.T) {
	f := newFixture(t, withStore(newStatBarrier(3)))
	ctx := context.Background()
	owner := uuid.New()

	var wg sync.WaitGroup
	stored := make([]*StoredFile, 3)
	errs := make([]error, 3)
	for i := range stored {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored[i], errs[i] = f.files.Save(ctx, SectionFinals, owner, upload("Master.wav", fmt.Sprint(i)))
		}(i)
	}
	wg.Wait()

	keys := map[string]bool{}
	for i := range stored {
		require.NoError(t, errs[i])
		assert.Equal(t, "master.wav", stored[i].Name)
		keys[stored[i].Key] = true
	}
	assert.Len(t, keys, 3)
	assert.True(t, keys["finals/"+owner.String()+"/master.wav"])
	assert.Len(t, f.store.Keys(), 3)
}

func TestSaveNeedsSeekableReaderToRetry(t *testing.T) {
	f := newFixture(t, withStore(newStatBarrier(2)))
	ctx := context.Background()
	owner := uuid.New()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			up := upload("vox.wav", "vox")
			up.Reader = io.MultiReader(strings.NewReader("vox"))
			_, errs[i] = f.files.Save(ctx, SectionTracks, owner, up)
		}(i)
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"tracks/" + owner.String() + "/vox.wav"}, f.store.Keys())
}
