package services

import (
	"context"

	"github.com/google/uuid"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

// ProjectState is everything the owner's project page shows at once.
type ProjectState struct {
	Project     *models.Project
	Songs       []models.Song
	Groups      []models.Group
	Tracks      []models.Track
	Comments    []models.Comment
	FinalFiles  []models.FinalFile
	TrackCredit uint
}

// State loads the project tree of a project visible to caller together with
// the owner's credit balance.
func (s *ProjectService) State(ctx context.Context, caller *models.User, id uuid.UUID) (*ProjectState, error) {
	project, err := s.GetVisibleProject(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	state := &ProjectState{Project: project}
	if state.Songs, err = repository.NewSongRepository(db).ListSongsByProject(id); err != nil {
		return nil, err
	}
	if state.Groups, err = repository.NewSongRepository(db).ListGroupsByProject(id); err != nil {
		return nil, err
	}
	if state.Tracks, err = repository.NewTrackRepository(db).ListTracksByProject(id); err != nil {
		return nil, err
	}
	comments := repository.NewCommentRepository(db)
	if state.Comments, err = comments.ListComments(id); err != nil {
		return nil, err
	}
	if state.FinalFiles, err = comments.ListFinalFiles(id); err != nil {
		return nil, err
	}
	profile, err := repository.NewProfileRepository(db).GetProfile(project.OwnerID)
	if err != nil {
		return nil, err
	}
	state.TrackCredit = profile.TrackCredit
	return state, nil
}
