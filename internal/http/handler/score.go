package handler

import (
	"encoding/json"
	"math"

	"github.com/gofiber/fiber/v2"

	"assetapi/internal/model"
	"assetapi/internal/service"
)

const scoreNotFound = "Score not found"

// scoreRequest is the wire shape of a score payload. Pointers distinguish
// absent fields from zero values.
type scoreRequest struct {
	PlayerName *string      `json:"player_name"`
	Score      *json.Number `json:"score"`
}

func unprocessable(message string) error {
	return &requestError{fiber.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", message}
}

// decodeScore enforces the structural shape of a score: player_name must be
// a string and score an integer. No range checks are applied beyond int64.
func decodeScore(body []byte) (model.PlayerScore, error) {
	var req scoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return model.PlayerScore{}, unprocessable("body must be a JSON object with player_name (string) and score (integer)")
	}
	if req.PlayerName == nil {
		return model.PlayerScore{}, unprocessable("player_name is required")
	}
	if req.Score == nil {
		return model.PlayerScore{}, unprocessable("score is required")
	}
	n, err := scoreValue(*req.Score)
	if err != nil {
		return model.PlayerScore{}, err
	}
	return model.PlayerScore{PlayerName: *req.PlayerName, Score: n}, nil
}

// scoreValue accepts integer literals and whole-number floats (42.0, 1e2)
// that fit in an int64. Fractions and out-of-range values are rejected.
func scoreValue(num json.Number) (int64, error) {
	if n, err := num.Int64(); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, unprocessable("score must be an integer")
	}
	return int64(f), nil
}

// CreateScore godoc
// @Summary Record a player score
// @Tags scores
// @Accept json
// @Produce json
// @Param score body scoreRequest true "score"
// @Success 200 {object} createdResponse
// @Failure 422 {object} errorPayload
// @Router /scores [post]
func CreateScore(svc service.ScoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := decodeScore(c.Body())
		if err != nil {
			return respondError(c, err, scoreNotFound)
		}
		id, err := svc.Create(c.UserContext(), s)
		if err != nil {
			return respondError(c, err, scoreNotFound)
		}
		return c.JSON(createdResponse{Message: "Score recorded", ID: id})
	}
}

// ListScores godoc
// @Summary List all player scores
// @Tags scores
// @Produce json
// @Success 200 {object} map[string][]model.PlayerScore
// @Router /scores [get]
func ListScores(svc service.ScoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err, scoreNotFound)
		}
		if items == nil {
			items = []model.PlayerScore{}
		}
		return c.JSON(fiber.Map{"scores": items})
	}
}

// ReplaceScore godoc
// @Summary Replace player_name and score of an entry
// @Tags scores
// @Accept json
// @Produce json
// @Param id path string true "score id"
// @Param score body scoreRequest true "score"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /scores/{id} [put]
func ReplaceScore(svc service.ScoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := decodeScore(c.Body())
		if err != nil {
			return respondError(c, err, scoreNotFound)
		}
		if err := svc.Replace(c.UserContext(), idParam(c), s); err != nil {
			return respondError(c, err, scoreNotFound)
		}
		return c.JSON(messageResponse{Message: "Score updated"})
	}
}

// DeleteScore godoc
// @Summary Delete a player score
// @Tags scores
// @Produce json
// @Param id path string true "score id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /scores/{id} [delete]
func DeleteScore(svc service.ScoreService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), idParam(c)); err != nil {
			return respondError(c, err, scoreNotFound)
		}
		return c.JSON(messageResponse{Message: "Score deleted"})
	}
}
