package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

const questionnaireTypeSetup = "campaign_setup"

// decodeAnswer unwraps a stored response back into the plain string the
// wizard works with. Responses are JSON values, setup answers are always
// strings.
func decodeAnswer(raw json.RawMessage) string {
	var answer string
	if err := json.Unmarshal(raw, &answer); err != nil {
		return string(raw)
	}
	return answer
}

type setupQuestion struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Options []string `json:"options,omitempty"`
}

// setupQuestions is the fixed question list the campaign setup wizard
// walks through. Answers are stored per question key.
var setupQuestions = []setupQuestion{
	{Key: "genre", Label: "What genre is your campaign?", Kind: "select"},
	{Key: "player_count", Label: "How many players are at the table?", Kind: "number"},
	{Key: "tone", Label: "What tone are you going for?", Kind: "select", Options: []string{"lighthearted", "balanced", "gritty", "grimdark"}},
	{Key: "themes", Label: "Which themes should the campaign lean into?", Kind: "text"},
	{Key: "lines_and_veils", Label: "Any lines or veils for the table?", Kind: "text"},
	{Key: "session_frequency", Label: "How often do you plan to play?", Kind: "select", Options: []string{"weekly", "biweekly", "monthly", "irregular"}},
	{Key: "starting_point", Label: "Where does the story begin?", Kind: "text"},
}

// GetSetupHandler returns the setup questionnaire together with the
// answers saved so far, keyed by question key.
func GetSetupHandler(c echo.Context) error {
	type getSetupParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
	}

	type getSetupResponse struct {
		Message   string            `json:"message,omitempty"`
		Questions []setupQuestion   `json:"questions"`
		Responses map[string]string `json:"responses"`
		Status    string            `json:"status,omitempty"`
	}

	params := new(getSetupParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSetupResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getSetupResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	campaign, err := campaignForUser(ctx, q, user.UserID, params.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, getSetupResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, getSetupResponse{
			Message: "Internal server error",
		})
	}

	saved, err := q.ListQuestionnaireResponses(ctx, db.ListQuestionnaireResponsesParams{
		CampaignID: campaign.ID,
		Type:       questionnaireTypeSetup,
	})
	if err != nil {
		logger.Error("Failed to list questionnaire responses", "err", err)
		return c.JSON(http.StatusInternalServerError, getSetupResponse{
			Message: "Internal server error",
		})
	}

	responses := make(map[string]string, len(saved))
	for _, r := range saved {
		responses[r.QuestionKey] = decodeAnswer(r.Response)
	}

	return c.JSON(http.StatusOK, getSetupResponse{
		Questions: setupQuestions,
		Responses: responses,
		Status:    campaign.Status,
	})
}
