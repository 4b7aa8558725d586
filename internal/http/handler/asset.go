package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"assetapi/internal/model"
	"assetapi/internal/service"
)

type messageResponse struct {
	Message string `json:"message"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// readUpload pulls the multipart "file" field into memory.
func readUpload(c *fiber.Ctx) (model.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return model.Upload{}, &requestError{fiber.StatusUnprocessableEntity, "FILE_REQUIRED", "file is required"}
	}

	f, err := fh.Open()
	if err != nil {
		return model.Upload{}, &requestError{fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file"}
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return model.Upload{}, &requestError{fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file"}
	}

	return model.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// CreateAsset godoc
// @Summary Upload a sprite (PNG/JPEG, max 2MB) or audio clip (MPEG/WAV, max 5MB)
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "asset file"
// @Success 200 {object} createdResponse
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /sprites [post]
// @Router /audio [post]
func CreateAsset(svc service.AssetService) fiber.Handler {
	kind := svc.Kind()
	return func(c *fiber.Ctx) error {
		up, err := readUpload(c)
		if err != nil {
			return respondError(c, err, kind.NotFoundMessage())
		}

		id, err := svc.Create(c.UserContext(), up)
		if err != nil {
			return respondError(c, err, kind.NotFoundMessage())
		}
		return c.JSON(createdResponse{Message: kind.Label + " uploaded", ID: id})
	}
}

// ListAssets godoc
// @Summary List stored assets (metadata only, content omitted)
// @Tags assets
// @Produce json
// @Success 200 {object} map[string][]model.Asset
// @Router /sprites [get]
// @Router /audio [get]
func ListAssets(svc service.AssetService) fiber.Handler {
	kind := svc.Kind()
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err, kind.NotFoundMessage())
		}
		if items == nil {
			items = []model.Asset{}
		}
		return c.JSON(fiber.Map{kind.ListKey: items})
	}
}

// ReplaceAsset godoc
// @Summary Replace filename and content of an asset
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "asset id"
// @Param file formData file true "asset file"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /sprites/{id} [put]
// @Router /audio/{id} [put]
func ReplaceAsset(svc service.AssetService) fiber.Handler {
	kind := svc.Kind()
	return func(c *fiber.Ctx) error {
		up, err := readUpload(c)
		if err != nil {
			return respondError(c, err, kind.NotFoundMessage())
		}

		if err := svc.Replace(c.UserContext(), idParam(c), up); err != nil {
			return respondError(c, err, kind.NotFoundMessage())
		}
		return c.JSON(messageResponse{Message: kind.Label + " updated"})
	}
}

// DeleteAsset godoc
// @Summary Delete an asset
// @Tags assets
// @Produce json
// @Param id path string true "asset id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /sprites/{id} [delete]
// @Router /audio/{id} [delete]
func DeleteAsset(svc service.AssetService) fiber.Handler {
	kind := svc.Kind()
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), idParam(c)); err != nil {
			return respondError(c, err, kind.NotFoundMessage())
		}
		return c.JSON(messageResponse{Message: kind.Label + " deleted"})
	}
}
