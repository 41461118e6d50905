package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sheetsby/metadata-api/internal/client"
	"github.com/sheetsby/metadata-api/internal/config"
	"github.com/sheetsby/metadata-api/internal/generator"
	"github.com/sheetsby/metadata-api/internal/handler"
	"github.com/sheetsby/metadata-api/internal/middleware"
	"github.com/sheetsby/metadata-api/internal/service"
)

// testApp holds all components needed for testing
type testApp struct {
	app     *fiber.App
	manager *generator.Manager
}

// upstreams optionally points the external clients at local test servers.
// Empty URLs leave a client unconfigured, which triggers the mock fallbacks.
type upstreams struct {
	sheetURL      string
	screenshotURL string
}

// setupApp creates a Fiber app identical to main.go but with unconfigured
// external clients. This triggers mock/fallback responses in all services.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return setupAppWithUpstreams(t, upstreams{})
}

func setupAppWithUpstreams(t *testing.T, up upstreams) *testApp {
	t.Helper()

	// Redis (localhost — rate limiting degrades to allow when absent)
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid collision
	})
	t.Cleanup(func() { redisClient.Close() })

	validate := validator.New()

	// External clients — unconfigured unless the test provides an upstream
	sheetClient := client.NewSheetClient(&config.SheetConfig{BaseURL: up.sheetURL, Timeout: 5})
	screenshotClient := client.NewScreenshotClient(&config.ScreenshotConfig{ServiceURL: up.screenshotURL, Timeout: 5})
	aiClient := client.NewAIClient(&config.AIConfig{}) // no API key → mock stream

	// Services
	metadataService := service.NewMetadataService()
	previewService := service.NewPreviewService(sheetClient, screenshotClient)
	tagStreamer := service.NewTagStreamer(aiClient)
	tagManager := generator.NewManager(tagStreamer, nil)

	// Handlers
	metadataHandler := handler.NewMetadataHandler(metadataService, validate)
	previewHandler := handler.NewPreviewHandler(previewService)
	tagsHandler := handler.NewTagsHandler(tagManager, metadataService, validate)

	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Fiber app
	app := fiber.New()

	// Base routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"timestamp": 1234567890})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"ai":         aiClient.IsConfigured(),
				"sheet":      sheetClient.IsConfigured(),
				"screenshot": screenshotClient.IsConfigured(),
			},
		})
	})

	// API routes — very high rate limits so tests don't get blocked
	api := app.Group("/api")
	api.Post("/description", metadataHandler.Describe)
	api.Get("/mmf", previewHandler.Sheet)
	api.Get("/screenshot", rateLimiter.ScreenshotLimit(10000), previewHandler.Screenshot)
	api.Post("/tags-generator", rateLimiter.TagsLimit(10000), tagsHandler.Stream)

	tags := api.Group("/tags")
	tags.Post("/generate", rateLimiter.TagsLimit(10000), tagsHandler.Generate)
	tags.Get("/status/:sessionId", tagsHandler.Status)
	tags.Get("/result/:sessionId", tagsHandler.Result)
	tags.Post("/cancel/:sessionId", tagsHandler.Cancel)
	tags.Post("/clear/:sessionId", tagsHandler.Clear)

	return &testApp{app: app, manager: tagManager}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// assertErrorCode checks the error envelope's code field.
func assertErrorCode(t *testing.T, body map[string]interface{}, expected string) {
	t.Helper()
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	if errObj["code"] != expected {
		t.Errorf("expected error code %q, got %v", expected, errObj["code"])
	}
}
