package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"assetapi/internal/http/middleware"
	"assetapi/internal/model"
	"assetapi/internal/service"
	serviceMocks "assetapi/internal/service/mocks"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

func multipartFile(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func newApp() *fiber.App {
	app := fiber.New(FiberConfig(16 * 1024 * 1024))
	app.Use(middleware.RequestID())
	return app
}

func TestRoot(t *testing.T) {
	app := newApp()
	app.Get("/", Root())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "Welcome to the API!", body["message"])
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newApp()
		app.Get("/health", HealthCheck(fakePinger{}))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := newApp()
		app.Get("/health", HealthCheck(fakePinger{err: errors.New("no primary")}))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("no store configured", func(t *testing.T) {
		app := newApp()
		app.Get("/health", HealthCheck(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newApp()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAsset(t *testing.T) {
	mockSvc := &serviceMocks.MockAssetService{AssetKind: model.Sprites}
	app := newApp()
	app.Post("/sprites", CreateAsset(mockSvc))

	t.Run("success", func(t *testing.T) {
		data := []byte("\x89PNG....")
		body, ct := multipartFile(t, "hero.png", "image/png", data)
		mockSvc.On("Create", mock.Anything, model.Upload{Filename: "hero.png", ContentType: "image/png", Content: data}).
			Return("64b7f0c2a1b2c3d4e5f60718", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/sprites", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Sprite uploaded", result["message"])
		assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", result["id"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/sprites", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("validation error", func(t *testing.T) {
		body, ct := multipartFile(t, "anim.gif", "image/gif", []byte("GIF89a"))
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return("", &service.ValidationError{Field: "content_type", Message: model.Sprites.TypeMessage}).Once()

		req := httptest.NewRequest(http.MethodPost, "/sprites", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "Only PNG and JPG images are allowed.", res.Detail)
		mockSvc.AssertExpectations(t)
	})

	t.Run("store unavailable", func(t *testing.T) {
		body, ct := multipartFile(t, "hero.png", "image/png", []byte("x"))
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: server selection timeout", service.ErrUnavailable)).Once()

		req := httptest.NewRequest(http.MethodPost, "/sprites", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := multipartFile(t, "hero.png", "image/png", []byte("x"))
		mockSvc.On("Create", mock.Anything, mock.Anything).Return("", errors.New("insert failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/sprites", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.NotContains(t, res.Detail, "insert failed")
	})
}

func TestListAssets(t *testing.T) {
	mockSvc := &serviceMocks.MockAssetService{AssetKind: model.Audio}
	app := newApp()
	app.Get("/audio", ListAssets(mockSvc))

	t.Run("success omits content", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Asset{
			{ID: "64b7f0c2a1b2c3d4e5f60718", Filename: "jump.wav", Content: []byte("RIFF")},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/audio", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string][]map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Len(t, result["audio_files"], 1)
		entry := result["audio_files"][0]
		assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", entry["_id"])
		assert.Equal(t, "jump.wav", entry["filename"])
		assert.NotContains(t, entry, "content")
	})

	t.Run("nil result renders empty list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.Asset(nil), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/audio", nil))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"audio_files":[]}`, buf.String())
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("cursor failed")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/audio", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestReplaceAsset(t *testing.T) {
	mockSvc := &serviceMocks.MockAssetService{AssetKind: model.Sprites}
	app := newApp()
	app.Put("/sprites/:id", ReplaceAsset(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartFile(t, "v2.jpg", "image/jpeg", []byte("jpeg"))
		mockSvc.On("Replace", mock.Anything, "abc", model.Upload{Filename: "v2.jpg", ContentType: "image/jpeg", Content: []byte("jpeg")}).
			Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/sprites/abc", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Sprite updated", result["message"])
	})

	t.Run("not found", func(t *testing.T) {
		body, ct := multipartFile(t, "v2.png", "image/png", []byte("png"))
		mockSvc.On("Replace", mock.Anything, "64b7f0c2a1b2c3d4e5f60718", mock.Anything).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/sprites/64b7f0c2a1b2c3d4e5f60718", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.Equal(t, "Sprite not found", res.Detail)
	})

	t.Run("malformed id maps to not found", func(t *testing.T) {
		body, ct := multipartFile(t, "v2.png", "image/png", []byte("png"))
		mockSvc.On("Replace", mock.Anything, "not-hex", mock.Anything).Return(service.ErrInvalidID).Once()

		req := httptest.NewRequest(http.MethodPut, "/sprites/not-hex", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Sprite not found", decodeError(t, resp).Detail)
	})

	t.Run("missing file", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPut, "/sprites/abc", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestDeleteAsset(t *testing.T) {
	mockSvc := &serviceMocks.MockAssetService{AssetKind: model.Audio}
	app := newApp()
	app.Delete("/audio/:id", DeleteAsset(mockSvc))

	mockSvc.On("Delete", mock.Anything, "a1").Return(nil).Once()
	mockSvc.On("Delete", mock.Anything, "a1").Return(service.ErrNotFound).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/audio/a1", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]string
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "Audio file deleted", result["message"])

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/audio/a1", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Audio file not found", decodeError(t, resp).Detail)

	mockSvc.AssertExpectations(t)
}

func TestDecodeScore(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    model.PlayerScore
		wantErr string
	}{
		{name: "valid", body: `{"player_name":"Ann","score":42}`, want: model.PlayerScore{PlayerName: "Ann", Score: 42}},
		{name: "negative and large", body: `{"player_name":"Bo","score":-9007199254740993}`, want: model.PlayerScore{PlayerName: "Bo", Score: -9007199254740993}},
		{name: "numeric string score", body: `{"player_name":"Cy","score":"7"}`, want: model.PlayerScore{PlayerName: "Cy", Score: 7}},
		{name: "missing name", body: `{"score":1}`, wantErr: "player_name is required"},
		{name: "missing score", body: `{"player_name":"Ann"}`, wantErr: "score is required"},
		{name: "whole-number float", body: `{"player_name":"Di","score":42.0}`, want: model.PlayerScore{PlayerName: "Di", Score: 42}},
		{name: "exponent", body: `{"player_name":"Ed","score":1e2}`, want: model.PlayerScore{PlayerName: "Ed", Score: 100}},
		{name: "fractional score", body: `{"player_name":"Ann","score":4.5}`, wantErr: "score must be an integer"},
		{name: "fractional string score", body: `{"player_name":"Ann","score":"4.5"}`, wantErr: "score must be an integer"},
		{name: "beyond int64", body: `{"player_name":"Ann","score":1e19}`, wantErr: "score must be an integer"},
		{name: "overflowing exponent", body: `{"player_name":"Ann","score":1e400}`, wantErr: "score must be an integer"},
		{name: "name not a string", body: `{"player_name":5,"score":1}`, wantErr: "body must be a JSON object"},
		{name: "not json", body: `player_name=Ann`, wantErr: "body must be a JSON object"},
		{name: "empty", body: ``, wantErr: "body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeScore([]byte(tt.body))
			if tt.wantErr != "" {
				var rerr *requestError
				require.ErrorAs(t, err, &rerr)
				assert.Equal(t, http.StatusUnprocessableEntity, rerr.status)
				assert.Contains(t, rerr.message, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockScoreService)
	app := newApp()
	app.Post("/scores", CreateScore(mockSvc))
	app.Get("/scores", ListScores(mockSvc))
	app.Put("/scores/:id", ReplaceScore(mockSvc))
	app.Delete("/scores/:id", DeleteScore(mockSvc))

	jsonReq := func(method, target, body string) *http.Request {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("create", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, model.PlayerScore{PlayerName: "Ann", Score: 42}).Return("s1", nil).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/scores", `{"player_name":"Ann","score":42}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Score recorded", result["message"])
		assert.Equal(t, "s1", result["id"])
	})

	t.Run("create structural error", func(t *testing.T) {
		resp, _ := app.Test(jsonReq(http.MethodPost, "/scores", `{"player_name":"Ann","score":"high"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "UNPROCESSABLE_ENTITY", decodeError(t, resp).Error.Code)
	})

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]model.PlayerScore{{ID: "s1", PlayerName: "Ann", Score: 42}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/scores", nil))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"scores":[{"player_name":"Ann","score":42,"_id":"s1"}]}`, buf.String())
	})

	t.Run("replace", func(t *testing.T) {
		mockSvc.On("Replace", mock.Anything, "s1", model.PlayerScore{PlayerName: "Ann", Score: 50}).Return(nil).Once()
		mockSvc.On("Replace", mock.Anything, "s2", mock.Anything).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(jsonReq(http.MethodPut, "/scores/s1", `{"player_name":"Ann","score":50}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = app.Test(jsonReq(http.MethodPut, "/scores/s2", `{"player_name":"Ann","score":50}`))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Score not found", decodeError(t, resp).Detail)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "s1").Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/scores/s1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result map[string]string
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Score deleted", result["message"])
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := newApp()
	RegisterRoutes(app, nil,
		&serviceMocks.MockAssetService{AssetKind: model.Sprites},
		&serviceMocks.MockAssetService{AssetKind: model.Audio},
		new(serviceMocks.MockScoreService),
	)

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("asset routes mounted per kind", func(t *testing.T) {
		paths := map[string]bool{}
		for _, r := range app.GetRoutes(true) {
			paths[r.Method+" "+r.Path] = true
		}
		for _, want := range []string{
			"POST /sprites", "GET /sprites", "PUT /sprites/:id", "DELETE /sprites/:id",
			"POST /audio", "GET /audio", "PUT /audio/:id", "DELETE /audio/:id",
			"POST /scores", "GET /scores", "PUT /scores/:id", "DELETE /scores/:id",
		} {
			assert.True(t, paths[want], "missing route %s", want)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(FiberConfig(1024))
	app.Use(middleware.RequestID())
	app.Post("/too-large", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.ErrTeapot })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("db password leaked") })

	t.Run("body too large", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/too-large", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "REQUEST_TOO_LARGE", res.Error.Code)
		assert.Equal(t, "request body too large", res.Detail)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("unmapped fiber error", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("plain error is not leaked", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, decodeError(t, resp).Detail, "password")
	})
}

// recordingScores keeps the ids it was called with past the end of each request.
type recordingScores struct {
	serviceMocks.MockScoreService
	mu  sync.Mutex
	ids []string
}

func (r *recordingScores) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}

func TestDeleteScore_RetainedIDSurvivesNextRequest(t *testing.T) {
	svc := &recordingScores{}
	app := newApp()
	app.Delete("/scores/:id", DeleteScore(svc))

	first := "64b7f0c2a1b2c3d4e5f6b5b8"
	second := "64b7f0c2a1b2c3d4e5f6b5b9"
	for _, id := range []string{first, second} {
		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/scores/"+id, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, []string{first, second}, svc.ids)
}
