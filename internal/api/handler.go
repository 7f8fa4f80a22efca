package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pantrychef/internal/chef"
	"pantrychef/internal/imagedata"
	"pantrychef/internal/pantry"
	"pantrychef/internal/recipe"
)

// Upload errors.
var (
	errNoFile        = errors.New("no image provided")
	errBadExtension  = errors.New("invalid file type")
	errFileTooLarge  = errors.New("image is too large")
	errInvalidFormat = errors.New("invalid image")
)

// Chef defines the interface for the ingredient and recipe round trips.
type Chef interface {
	IdentifyIngredients(ctx context.Context, image string) chef.Outcome[[]string]
	SuggestRecipes(ctx context.Context, ingredients []recipe.Ingredient) chef.Outcome[[]recipe.Recipe]
}

// Settings carries the request limits the handlers enforce.
type Settings struct {
	Provider       string
	MaxUploadBytes int64
	Timeout        time.Duration
	Encoder        imagedata.Encoder
}

// Handler handles HTTP requests.
type Handler struct {
	Chef       Chef
	Workspaces *pantry.Workspaces
	Settings   Settings
	log        *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(c Chef, workspaces *pantry.Workspaces, log *zap.Logger, settings Settings) *Handler {
	return &Handler{Chef: c, Workspaces: workspaces, Settings: settings, log: log}
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type recipesRequest struct {
	Ingredients []recipe.Ingredient `json:"ingredients"`
}

// AnalyzeImage identifies the ingredients in a data-URI image.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out := h.Chef.IdentifyIngredients(ctx, req.Image)
	switch out.Status {
	case chef.StatusOK:
		c.JSON(http.StatusOK, gin.H{"ingredients": out.Value})
	case chef.StatusInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
	case chef.StatusAuthMisconfigured:
		h.log.Warn("model credential unavailable, serving demo ingredients", zap.Error(out.Err))
		c.JSON(http.StatusOK, gin.H{"ingredients": recipe.DemoIngredients(), "demo": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze image", "details": out.Err.Error()})
	}
}

// Recipes suggests recipes for an ingredient list.
func (h *Handler) Recipes(c *gin.Context) {
	var req recipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out := h.Chef.SuggestRecipes(ctx, req.Ingredients)
	switch out.Status {
	case chef.StatusOK:
		c.JSON(http.StatusOK, gin.H{"recipes": out.Value})
	case chef.StatusInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": "No ingredients provided"})
	case chef.StatusAuthMisconfigured:
		h.log.Warn("model credential unavailable, serving demo recipes", zap.Error(out.Err))
		c.JSON(http.StatusOK, gin.H{"recipes": recipe.DemoRecipes(), "demo": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipes", "details": out.Err.Error()})
	}
}

// EncodeImage turns an uploaded image file into the data URI AnalyzeImage expects.
func (h *Handler) EncodeImage(c *gin.Context) {
	image, err := h.readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": uploadMessage(err), "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": image, "image_hash": imagedata.Hash(image)})
}

// Health reports that the server is up and which provider it talks to.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": h.Settings.Provider})
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.Settings.Timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.Settings.Timeout)
}

// readUpload validates the multipart "file" field and encodes it as a data URI.
func (h *Handler) readUpload(c *gin.Context) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoFile, err)
	}

	if !imagedata.HasAllowedExtension(file.Filename) {
		return "", fmt.Errorf("%w: %s", errBadExtension, file.Filename)
	}

	limit := h.Settings.MaxUploadBytes
	if limit > 0 && file.Size > limit {
		return "", fmt.Errorf("%w: %d bytes", errFileTooLarge, file.Size)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	var r io.Reader = src
	if limit > 0 {
		r = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", errFileTooLarge, limit)
	}

	image, err := h.Settings.Encoder.Encode(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidFormat, err)
	}
	return image, nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, errNoFile):
		return "No image provided"
	case errors.Is(err, errFileTooLarge):
		return "Image is too large"
	case errors.Is(err, errBadExtension), errors.Is(err, errInvalidFormat):
		return "Invalid file type. Only JPEG, JPG, PNG and WEBP images are allowed."
	default:
		return "Failed to read image"
	}
}
