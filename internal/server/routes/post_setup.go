package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/grimoire-app/grimoire/backend/internal/db"
	"github.com/grimoire-app/grimoire/backend/internal/server/middleware"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SaveSetupHandler upserts questionnaire answers. Answering the same
// question twice overwrites the earlier answer.
func SaveSetupHandler(c echo.Context) error {
	type saveSetupBody struct {
		CampaignSlug string            `param:"campaign_slug" validate:"required"`
		Answers      map[string]string `json:"answers" validate:"required"`
	}

	type saveSetupResponse struct {
		Message   string            `json:"message"`
		Responses map[string]string `json:"responses,omitempty"`
	}

	data := new(saveSetupBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, saveSetupResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, saveSetupResponse{
			Message: "Invalid request body",
		})
	}

	knownKeys := make(map[string]bool, len(setupQuestions))
	for _, question := range setupQuestions {
		knownKeys[question.Key] = true
	}
	for key := range data.Answers {
		if !knownKeys[key] {
			return c.JSON(http.StatusBadRequest, saveSetupResponse{
				Message: "Unknown question key",
			})
		}
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	tx, err := conn.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, saveSetupResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	q := db.New(conn)
	qtx := q.WithTx(tx)

	campaign, err := campaignForUser(ctx, qtx, user.UserID, data.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, saveSetupResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, saveSetupResponse{
			Message: "Internal server error",
		})
	}

	responses := make(map[string]string, len(data.Answers))
	for key, answer := range data.Answers {
		encoded, err := json.Marshal(answer)
		if err != nil {
			logger.Error("Failed to encode questionnaire answer", "err", err)
			return c.JSON(http.StatusInternalServerError, saveSetupResponse{
				Message: "Internal server error",
			})
		}
		saved, err := qtx.UpsertQuestionnaireResponse(ctx, db.UpsertQuestionnaireResponseParams{
			CampaignID:  campaign.ID,
			Type:        questionnaireTypeSetup,
			QuestionKey: key,
			Response:    encoded,
		})
		if err != nil {
			logger.Error("Failed to save questionnaire response", "err", err)
			return c.JSON(http.StatusInternalServerError, saveSetupResponse{
				Message: "Internal server error",
			})
		}
		responses[saved.QuestionKey] = decodeAnswer(saved.Response)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, saveSetupResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, saveSetupResponse{
		Message:   "Answers saved successfully",
		Responses: responses,
	})
}

// CompleteSetupHandler finishes the wizard, copies the structured
// answers onto the campaign and moves it to active.
func CompleteSetupHandler(c echo.Context) error {
	type completeSetupParams struct {
		CampaignSlug string `param:"campaign_slug" validate:"required"`
	}

	type completeSetupResponse struct {
		Message  string       `json:"message"`
		Campaign *db.Campaign `json:"campaign,omitempty"`
	}

	params := new(completeSetupParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, completeSetupResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, completeSetupResponse{
			Message: "Invalid request body",
		})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	tx, err := conn.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, completeSetupResponse{
			Message: "Internal server error",
		})
	}
	defer tx.Rollback(ctx)
	q := db.New(conn)
	qtx := q.WithTx(tx)

	campaign, err := campaignForUser(ctx, qtx, user.UserID, params.CampaignSlug)
	if err != nil {
		if errors.Is(err, errCampaignNotFound) {
			return c.JSON(http.StatusNotFound, completeSetupResponse{
				Message: "Campaign not found",
			})
		}
		logger.Error("Failed to get campaign", "err", err)
		return c.JSON(http.StatusInternalServerError, completeSetupResponse{
			Message: "Internal server error",
		})
	}

	saved, err := qtx.ListQuestionnaireResponses(ctx, db.ListQuestionnaireResponsesParams{
		CampaignID: campaign.ID,
		Type:       questionnaireTypeSetup,
	})
	if err != nil {
		logger.Error("Failed to list questionnaire responses", "err", err)
		return c.JSON(http.StatusInternalServerError, completeSetupResponse{
			Message: "Internal server error",
		})
	}

	var genre *string
	var playerCount *int32
	tone := make(map[string]string)
	for _, r := range saved {
		answer := decodeAnswer(r.Response)
		switch r.QuestionKey {
		case "genre":
			genre = &answer
		case "player_count":
			if n, err := strconv.ParseInt(answer, 10, 32); err == nil {
				count := int32(n)
				playerCount = &count
			}
		case "tone", "themes", "lines_and_veils":
			tone[r.QuestionKey] = answer
		}
	}

	var toneSettings json.RawMessage
	if len(tone) > 0 {
		toneSettings, err = json.Marshal(tone)
		if err != nil {
			logger.Error("Failed to marshal tone settings", "err", err)
			return c.JSON(http.StatusInternalServerError, completeSetupResponse{
				Message: "Internal server error",
			})
		}
	}

	updated, err := qtx.CompleteCampaignSetup(ctx, db.CompleteCampaignSetupParams{
		ID:           campaign.ID,
		UserID:       user.UserID,
		Genre:        genre,
		PlayerCount:  playerCount,
		ToneSettings: toneSettings,
	})
	if err != nil {
		logger.Error("Failed to complete campaign setup", "err", err)
		return c.JSON(http.StatusInternalServerError, completeSetupResponse{
			Message: "Internal server error",
		})
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", "err", err)
		return c.JSON(http.StatusInternalServerError, completeSetupResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, completeSetupResponse{
		Message:  "Campaign setup completed",
		Campaign: &updated,
	})
}
