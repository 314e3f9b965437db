package handlers

import (
	"time"

	"github.com/google/uuid"

	"mixing-service/internal/models"
	"mixing-service/internal/services"
)

const purchaseURL = "/api/purchases"

type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Owner       uuid.UUID `json:"owner"`
	OwnerName   string    `json:"owner_name,omitempty"`
	Status      uint      `json:"status"`
	StatusLabel string    `json:"status_label"`
	Active      bool      `json:"active"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProjectResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Owner:       p.OwnerID,
		Status:      uint(p.Status),
		StatusLabel: p.Status.String(),
		Active:      p.Active,
		Priority:    p.Priority,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Owner != nil {
		resp.OwnerName = p.Owner.DisplayName()
	}
	return resp
}

func newProjectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectResponse(&projects[i]))
	}
	return out
}

type TrackResponse struct {
	ID        uuid.UUID        `json:"id"`
	Group     uuid.UUID        `json:"group"`
	File      *models.FileMeta `json:"file"`
	CreatedAt time.Time        `json:"created_at"`
}

func newTrackResponse(t *models.Track) TrackResponse {
	return TrackResponse{ID: t.ID, Group: t.GroupID, File: t.File(), CreatedAt: t.CreatedAt}
}

func newTrackResponses(tracks []models.Track) []TrackResponse {
	out := make([]TrackResponse, 0, len(tracks))
	for i := range tracks {
		out = append(out, newTrackResponse(&tracks[i]))
	}
	return out
}

type CommentResponse struct {
	ID         uuid.UUID        `json:"id"`
	Project    uuid.UUID        `json:"project"`
	Author     string           `json:"author"`
	Content    string           `json:"content"`
	Attachment *models.FileMeta `json:"attachment"`
	Created    time.Time        `json:"created"`
}

func newCommentResponse(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:         c.ID,
		Project:    c.ProjectID,
		Content:    c.Content,
		Attachment: c.Attachment(),
		Created:    c.CreatedAt,
	}
	if c.Author != nil {
		resp.Author = c.Author.DisplayName()
	}
	return resp
}

func newCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i]))
	}
	return out
}

type FinalFileResponse struct {
	ID      uuid.UUID        `json:"id"`
	Project uuid.UUID        `json:"project"`
	Title   string           `json:"title"`
	File    *models.FileMeta `json:"file"`
	Created time.Time        `json:"created"`
}

func newFinalFileResponses(files []models.FinalFile) []FinalFileResponse {
	out := make([]FinalFileResponse, 0, len(files))
	for i := range files {
		f := &files[i]
		out = append(out, FinalFileResponse{
			ID:      f.ID,
			Project: f.ProjectID,
			Title:   f.DisplayName(),
			File:    f.File(),
			Created: f.CreatedAt,
		})
	}
	return out
}

type ProfileResponse struct {
	User        uuid.UUID `json:"user"`
	Username    string    `json:"username"`
	IsStaff     bool      `json:"is_staff"`
	TrackCredit uint      `json:"track_credit"`
	PurchaseURL string    `json:"purchase_url"`
}

type ProjectStateResponse struct {
	Project    ProjectResponse     `json:"project"`
	Songs      []models.Song       `json:"songs"`
	Groups     []models.Group      `json:"groups"`
	Tracks     []TrackResponse     `json:"tracks"`
	Comments   []CommentResponse   `json:"comments"`
	FinalFiles []FinalFileResponse `json:"final_files"`
	Profile    ProfileResponse     `json:"profile"`
}

func newProjectStateResponse(state *services.ProjectState) ProjectStateResponse {
	profile := ProfileResponse{
		User:        state.Project.OwnerID,
		TrackCredit: state.TrackCredit,
		PurchaseURL: purchaseURL,
	}
	if owner := state.Project.Owner; owner != nil {
		profile.Username = owner.Username
		profile.IsStaff = owner.IsStaff
	}
	songs, groups := state.Songs, state.Groups
	if songs == nil {
		songs = []models.Song{}
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return ProjectStateResponse{
		Project:    newProjectResponse(state.Project),
		Songs:      songs,
		Groups:     groups,
		Tracks:     newTrackResponses(state.Tracks),
		Comments:   newCommentResponses(state.Comments),
		FinalFiles: newFinalFileResponses(state.FinalFiles),
		Profile:    profile,
	}
}

type PurchaseResponse struct {
	ID          uuid.UUID `json:"id"`
	User        uuid.UUID `json:"user"`
	Credits     uint      `json:"credits"`
	AmountCents int64     `json:"amount_cents"`
	Created     time.Time `json:"created"`
}

func newPurchaseResponse(p *models.Purchase) PurchaseResponse {
	return PurchaseResponse{ID: p.ID, User: p.UserID, Credits: p.Credits, AmountCents: p.AmountCents, Created: p.CreatedAt}
}

func newPurchaseResponses(purchases []models.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, newPurchaseResponse(&purchases[i]))
	}
	return out
}
