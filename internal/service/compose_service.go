package service

import (
	"context"

	"bloghub/internal/draft"
	"bloghub/internal/models"
	"bloghub/internal/repository"
)

// ComposeService drives the compose-form continuity protocol over
// stateless requests: each call rebuilds a draft session around the
// caller's slot in transient storage.
type ComposeService struct {
	store        draft.Store
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

// ComposeState is what the compose form renders on mount.
type ComposeState struct {
	State    string         `json:"state"`
	Snapshot draft.Snapshot `json:"snapshot"`
}

func NewComposeService(
	store draft.Store,
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
) *ComposeService {
	return &ComposeService{
		store:        store,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

// sourceSnapshot builds the snapshot seeded from an existing post when
// the compose form opens in edit mode.
func (s *ComposeService) sourceSnapshot(ctx context.Context, userID, editTarget uint) (*draft.Snapshot, error) {
	post, err := s.postRepo.GetByID(ctx, editTarget, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	snap := &draft.Snapshot{
		Title:            post.Title,
		Content:          post.Content,
		ThumbnailDataURI: post.ThumbnailURL,
		Status:           post.Status,
		EditTarget:       post.ID,
	}
	if post.CategoryID != nil {
		snap.CategoryID = *post.CategoryID
	}
	for _, tag := range post.Tags {
		snap.Tags = append(snap.Tags, tag.Name)
	}
	return snap, nil
}

// Enter runs the compose mount transition. A pending transient snapshot
// wins over the edit target's stored record and is consumed by the read.
func (s *ComposeService) Enter(ctx context.Context, sessionKey string, userID, editTarget uint) (*ComposeState, error) {
	var source *draft.Snapshot
	if editTarget != 0 {
		snap, err := s.sourceSnapshot(ctx, userID, editTarget)
		if err != nil {
			return nil, err
		}
		source = snap
	}

	sess := draft.NewSession(s.store, sessionKey)
	state := sess.Enter(ctx, source)

	return &ComposeState{
		State:    state.String(),
		Snapshot: sess.Snapshot(),
	}, nil
}

// Preview validates the submitted snapshot field by field, stashes it in
// the caller's slot and returns the navigation payload for the preview
// destination.
func (s *ComposeService) Preview(ctx context.Context, sessionKey string, userID uint, in draft.Snapshot) (*draft.PreviewPayload, error) {
	if in.EditTarget != 0 {
		// Ownership check; the source fields themselves are ignored.
		if _, err := s.sourceSnapshot(ctx, userID, in.EditTarget); err != nil {
			return nil, err
		}
	}

	sess := draft.NewSession(s.store, sessionKey)
	sess.Resume(draft.Snapshot{EditTarget: in.EditTarget, Status: models.PostStatusPublished})

	if err := sess.SetTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	sess.SetContent(in.Content)
	sess.SetCategory(in.CategoryID)
	sess.SetThumbnail(in.ThumbnailDataURI)
	if in.Status != "" {
		if err := sess.SetStatus(in.Status); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	for _, tag := range in.Tags {
		if err := sess.AddTag(tag); err != nil {
			if err == draft.ErrDuplicateTag {
				continue
			}
			return nil, models.NewValidationError(err.Error())
		}
	}

	tree, err := s.categoryRepo.Tree(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := sess.Preview(ctx, tree)
	if err != nil {
		if err == draft.ErrPreviewNotReady {
			return nil, models.NewValidationError(err.Error())
		}
		return nil, err
	}
	return payload, nil
}

// AddTag validates a single tag against the snapshot's existing labels.
// The compose form calls this as the user types so rejections surface
// immediately.
func (s *ComposeService) AddTag(existing []string, raw string) ([]string, error) {
	snap := draft.Snapshot{Tags: existing}
	if err := snap.AddTag(raw); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return snap.Tags, nil
}
