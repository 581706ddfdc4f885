package db

import (
	"encoding/json"
	"time"
)

type Campaign struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  *string         `json:"description"`
	Genre        *string         `json:"genre"`
	RuleSystem   string          `json:"rule_system"`
	ToneSettings json.RawMessage `json:"tone_settings"`
	PlayerCount  *int32          `json:"player_count"`
	Status       string          `json:"status"`
	Settings     json.RawMessage `json:"settings"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Node struct {
	ID          string          `json:"id"`
	CampaignID  int64           `json:"campaign_id"`
	Type        string          `json:"type"`
	Subtype     *string         `json:"subtype"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Summary     *string         `json:"summary"`
	Content     json.RawMessage `json:"content"`
	Metadata    json.RawMessage `json:"metadata"`
	Confidence  string          `json:"confidence"`
	IsSecret    bool            `json:"is_secret"`
	PortraitKey *string         `json:"portrait_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NodeRef is the minimal projection of a node used when it appears as the
// far endpoint of an edge or inside a picker list.
type NodeRef struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Subtype *string `json:"subtype"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
}

type Edge struct {
	ID           int64           `json:"id"`
	CampaignID   int64           `json:"campaign_id"`
	SourceNodeID string          `json:"source_node_id"`
	TargetNodeID string          `json:"target_node_id"`
	Type         string          `json:"type"`
	Label        string          `json:"label"`
	Description  *string         `json:"description"`
	Strength     *int32          `json:"strength"`
	Metadata     json.RawMessage `json:"metadata"`
	IsSecret     bool            `json:"is_secret"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OutgoingEdge is an edge paired with its target node projection.
type OutgoingEdge struct {
	Edge
	TargetNode NodeRef `json:"target_node"`
}

// IncomingEdge is an edge paired with its source node projection.
type IncomingEdge struct {
	Edge
	SourceNode NodeRef `json:"source_node"`
}

type GameSession struct {
	ID          int64           `json:"id"`
	CampaignID  int64           `json:"campaign_id"`
	Number      int32           `json:"number"`
	Title       *string         `json:"title"`
	Status      string          `json:"status"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	PlayedAt    *time.Time      `json:"played_at"`
	Plan        json.RawMessage `json:"plan"`
	Notes       *string         `json:"notes"`
	Recap       *string         `json:"recap"`
	Outcomes    json.RawMessage `json:"outcomes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Tag struct {
	ID         int64     `json:"id"`
	CampaignID int64     `json:"campaign_id"`
	Name       string    `json:"name"`
	Color      *string   `json:"color"`
	CreatedAt  time.Time `json:"created_at"`
}

type QuestionnaireResponse struct {
	ID            int64           `json:"id"`
	CampaignID    int64           `json:"campaign_id"`
	GameSessionID *int64          `json:"game_session_id"`
	Type          string          `json:"type"`
	QuestionKey   string          `json:"question_key"`
	Response      json.RawMessage `json:"response"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
