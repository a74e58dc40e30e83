package models

import "time"

type Poll struct {
	ID        int          `json:"id"`
	ProjectID int          `json:"project_id"`
	Question  string       `json:"question"`
	CreatorID int          `json:"creator_id"`
	IsClosed  bool         `json:"is_closed"`
	Options   []PollOption `json:"options"`
	CreatedAt time.Time    `json:"created_at"`
}

type PollOption struct {
	ID        int    `json:"id"`
	PollID    int    `json:"poll_id"`
	Text      string `json:"option_text"`
	VoteCount int    `json:"vote_count"`
	VoterIDs  []int  `json:"voter_ids,omitempty"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	OptionID int `json:"optionId"`
}
