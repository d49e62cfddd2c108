package service

import (
	"context"

	"raf_pnp_backend/internal/tasks/domain"
	"raf_pnp_backend/internal/tasks/transport"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

// AddComment appends a comment and tells the assignee unless they wrote it.
func (s *Service) AddComment(ctx context.Context, taskID uuid.UUID, req transport.AddCommentRequest) (transport.CommentResponse, error) {
	who := actor.OrSystem(ctx, s.system)
	userID := req.UserID
	if userID == nil && !who.IsSystem() {
		userID = actorUserID(who)
	}

	author := who.Label()
	if userID != nil && s.users != nil && (who.IsSystem() || who.ID != *userID) {
		name, err := s.users.FullName(ctx, *userID)
		if err != nil {
			return transport.CommentResponse{}, err
		}
		author = name
	}

	var created domain.Comment
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		created, err = s.repo.AddComment(ctx, domain.Comment{
			TaskID:     taskID,
			UserID:     userID,
			AuthorName: author,
			Comment:    sanitize.Text(req.Comment),
		})
		if err != nil {
			return err
		}

		if s.notifier == nil || t.AssignedToUserID == nil {
			return nil
		}
		if userID != nil && *userID == *t.AssignedToUserID {
			return nil
		}
		return s.notifier.NotifyTaskCommented(ctx, t, author)
	})
	if err != nil {
		return transport.CommentResponse{}, err
	}

	s.log.Info("task comment added", "taskId", taskID, "author", author)
	return toCommentResponse(created), nil
}

// ListComments returns the task's comments, newest first.
func (s *Service) ListComments(ctx context.Context, taskID uuid.UUID) ([]transport.CommentResponse, error) {
	if _, err := s.repo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return toCommentResponses(comments), nil
}

func toCommentResponses(comments []domain.Comment) []transport.CommentResponse {
	out := make([]transport.CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	return out
}

func toCommentResponse(c domain.Comment) transport.CommentResponse {
	return transport.CommentResponse{
		ID:         c.ID,
		TaskID:     c.TaskID,
		UserID:     c.UserID,
		AuthorName: c.AuthorName,
		Comment:    c.Comment,
		CreatedAt:  c.CreatedAt,
	}
}
