package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

// admit checks that caller owns project and that the project accepts changes.
// Ownership is checked first.
func admit(project *models.Project, caller *models.User) error {
	if caller == nil || project.OwnerID != caller.ID {
		return ErrNotOwner
	}
	if !project.Active {
		return ErrProjectInactive
	}
	return nil
}

// admitProject loads a project and runs admit on it. A missing project is
// reported as ErrNotOwner so IDs of other users' projects are not revealed.
func admitProject(db *gorm.DB, projectID uuid.UUID, caller *models.User) (*models.Project, error) {
	project, err := repository.NewProjectRepository(db).GetProject(projectID)
	if repository.IsNotFound(err) {
		return nil, ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	return project, admit(project, caller)
}

// requireActive fails with ErrProjectInactive unless project accepts changes.
func requireActive(project *models.Project) error {
	if !project.Active {
		return ErrProjectInactive
	}
	return nil
}

// notFound turns gorm.ErrRecordNotFound into ErrNotFound.
func notFound(err error) error {
	if repository.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

// refund returns n credits to ownerID inside tx.
func refund(tx *gorm.DB, ownerID uuid.UUID, n int64) error {
	if n <= 0 {
		return nil
	}
	profiles := repository.NewProfileRepository(tx)
	if err := profiles.EnsureProfile(ownerID); err != nil {
		return err
	}
	return profiles.AddCredit(ownerID, uint(n))
}
