package services

import (
	"context"
	"errors"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/models"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrPollTooFewOpts = errors.New("question and at least 2 options required")
	ErrOptionNotFound = errors.New("option does not belong to this poll")
)

type PollService struct{}

func NewPollService() *PollService {
	return &PollService{}
}

func (s *PollService) CreatePoll(ctx context.Context, projectID, creatorID int, req models.CreatePollRequest) (*models.Poll, error) {
	if req.Question == "" || len(req.Options) < 2 {
		return nil, ErrPollTooFewOpts
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var pollID int
	err = tx.QueryRow(ctx,
		"INSERT INTO polls (project_id, question, creator_id) VALUES ($1, $2, $3) RETURNING id",
		projectID, req.Question, creatorID).Scan(&pollID)
	if err != nil {
		return nil, err
	}

	for _, opt := range req.Options {
		if _, err := tx.Exec(ctx,
			"INSERT INTO poll_options (poll_id, option_text) VALUES ($1, $2)", pollID, opt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetPoll(ctx, pollID)
}

// Vote records the user's choice. A user holds one vote per poll: voting
// again moves the vote to the new option. The option must belong to the
// poll; a cross-poll optionId is rejected.
func (s *PollService) Vote(ctx context.Context, pollID, userID, optionID int) (*models.Poll, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM poll_votes pv
		USING poll_options po
		WHERE pv.poll_option_id = po.id AND po.poll_id = $1 AND pv.user_id = $2`,
		pollID, userID)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO poll_votes (poll_option_id, user_id)
		SELECT po.id, $3
		FROM poll_options po
		WHERE po.id = $2 AND po.poll_id = $1`,
		pollID, optionID, userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrOptionNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetPoll(ctx, pollID)
}

func (s *PollService) GetPoll(ctx context.Context, id int) (*models.Poll, error) {
	var p models.Poll
	err := db.Pool.QueryRow(ctx,
		"SELECT id, project_id, question, creator_id, is_closed, created_at FROM polls WHERE id = $1", id).
		Scan(&p.ID, &p.ProjectID, &p.Question, &p.CreatorID, &p.IsClosed, &p.CreatedAt)
	if err != nil {
		return nil, ErrPollNotFound
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT po.id, po.poll_id, po.option_text,
		       COUNT(pv.id) AS vote_count,
		       COALESCE(ARRAY_AGG(pv.user_id) FILTER (WHERE pv.user_id IS NOT NULL), '{}') AS voter_ids
		FROM poll_options po
		LEFT JOIN poll_votes pv ON pv.poll_option_id = po.id
		WHERE po.poll_id = $1
		GROUP BY po.id, po.poll_id, po.option_text
		ORDER BY po.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.VoteCount, &opt.VoterIDs); err != nil {
			return nil, err
		}
		p.Options = append(p.Options, opt)
	}
	return &p, rows.Err()
}

func (s *PollService) ListPolls(ctx context.Context, projectID int) ([]models.Poll, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT id FROM polls WHERE project_id = $1 ORDER BY created_at DESC", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	polls := make([]models.Poll, 0, len(ids))
	for _, id := range ids {
		poll, err := s.GetPoll(ctx, id)
		if err != nil {
			return nil, err
		}
		polls = append(polls, *poll)
	}
	return polls, nil
}
