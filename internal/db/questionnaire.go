package db

import (
	"context"
	"encoding/json"
)

const questionnaireColumns = `id, campaign_id, game_session_id, type, question_key, response, created_at, updated_at`

const upsertQuestionnaireResponse = `
INSERT INTO questionnaire_responses (campaign_id, game_session_id, type, question_key, response)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (campaign_id, type, question_key)
DO UPDATE SET response = EXCLUDED.response, game_session_id = EXCLUDED.game_session_id, updated_at = now()
RETURNING ` + questionnaireColumns

type UpsertQuestionnaireResponseParams struct {
	CampaignID    int64
	GameSessionID *int64
	Type          string
	QuestionKey   string
	Response      json.RawMessage
}

func (q *Queries) UpsertQuestionnaireResponse(ctx context.Context, arg UpsertQuestionnaireResponseParams) (QuestionnaireResponse, error) {
	var r QuestionnaireResponse
	err := q.db.QueryRow(ctx, upsertQuestionnaireResponse,
		arg.CampaignID,
		arg.GameSessionID,
		arg.Type,
		arg.QuestionKey,
		arg.Response,
	).Scan(&r.ID, &r.CampaignID, &r.GameSessionID, &r.Type, &r.QuestionKey, &r.Response, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const listQuestionnaireResponses = `
SELECT ` + questionnaireColumns + `
FROM questionnaire_responses
WHERE campaign_id = $1 AND type = $2
ORDER BY question_key
`

type ListQuestionnaireResponsesParams struct {
	CampaignID int64
	Type       string
}

func (q *Queries) ListQuestionnaireResponses(ctx context.Context, arg ListQuestionnaireResponsesParams) ([]QuestionnaireResponse, error) {
	rows, err := q.db.Query(ctx, listQuestionnaireResponses, arg.CampaignID, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]QuestionnaireResponse, 0)
	for rows.Next() {
		var r QuestionnaireResponse
		if err := rows.Scan(&r.ID, &r.CampaignID, &r.GameSessionID, &r.Type, &r.QuestionKey, &r.Response, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}
