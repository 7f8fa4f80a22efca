package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pantrychef/internal/chef"
	"pantrychef/internal/pantry"
	"pantrychef/internal/recipe"
)

// SessionCookie names the cookie that ties a browser to its workspace.
const SessionCookie = "pantrychef_session"

// Page notices.
const (
	noticeNoIngredients = "No ingredients detected. Please try another image or add ingredients manually."
	noticeAnalyzeFailed = "Failed to analyze image. Please try again."
	noticeRecipesFailed = "Failed to get recipes. Please try again."
	noticeDemo          = "Showing sample data because the model API key is missing or was rejected. Set OPENAI_API_KEY or GEMINI_API_KEY and restart."
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// PageTemplate parses the embedded page templates.
func PageTemplate() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.gohtml"))
}

type pageData struct {
	Items    []pantry.Item
	Results  pantry.ResultsView
	State    string
	Notice   string
	Provider string
}

// Index renders the pantry and the latest recipe results.
func (h *Handler) Index(c *gin.Context) {
	ws := h.workspace(c)
	view := ws.Recipes.Snapshot()

	c.HTML(http.StatusOK, "index.gohtml", pageData{
		Items:    ws.Pantry.List(),
		Results:  view,
		State:    view.State(),
		Notice:   ws.PopNotice(),
		Provider: h.Settings.Provider,
	})
}

// UploadIngredients identifies the ingredients in an uploaded photo and appends them.
func (h *Handler) UploadIngredients(c *gin.Context) {
	ws := h.workspace(c)
	defer redirectHome(c)

	image, err := h.readUpload(c)
	if err != nil {
		h.log.Info("rejected upload", zap.Error(err))
		ws.SetNotice(uploadMessage(err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out := h.Chef.IdentifyIngredients(ctx, image)
	switch out.Status {
	case chef.StatusOK:
		if len(ws.Pantry.AddMany(out.Value)) == 0 {
			ws.SetNotice(noticeNoIngredients)
		}
	case chef.StatusAuthMisconfigured:
		ws.Pantry.AddMany(recipe.DemoIngredients())
		ws.SetNotice(noticeDemo)
	default:
		ws.SetNotice(noticeAnalyzeFailed)
	}
}

// AddIngredient appends one manually entered ingredient.
func (h *Handler) AddIngredient(c *gin.Context) {
	ws := h.workspace(c)
	ws.Pantry.Add(c.PostForm("name"), c.PostForm("quantity"))
	redirectHome(c)
}

// UpdateIngredient replaces the name and quantity of an ingredient.
func (h *Handler) UpdateIngredient(c *gin.Context) {
	ws := h.workspace(c)
	if !ws.Pantry.Update(c.Param("id"), c.PostForm("name"), c.PostForm("quantity")) {
		h.log.Debug("ingredient not updated", zap.String("id", c.Param("id")))
	}
	redirectHome(c)
}

// RemoveIngredient deletes an ingredient.
func (h *Handler) RemoveIngredient(c *gin.Context) {
	ws := h.workspace(c)
	ws.Pantry.Remove(c.Param("id"))
	redirectHome(c)
}

// ClearPantry empties the ingredient list and the recipe results.
func (h *Handler) ClearPantry(c *gin.Context) {
	h.workspace(c).Clear()
	redirectHome(c)
}

// SuggestRecipes asks for recipes using the current ingredient list and replaces the
// displayed results. A response that arrives after a newer request was issued is dropped.
func (h *Handler) SuggestRecipes(c *gin.Context) {
	ws := h.workspace(c)
	defer redirectHome(c)

	ingredients := ws.Pantry.Ingredients()
	seq := ws.Recipes.Begin()

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out := h.Chef.SuggestRecipes(ctx, ingredients)

	var applied bool
	switch out.Status {
	case chef.StatusOK:
		applied = ws.Recipes.Complete(seq, out.Value, false)
	case chef.StatusAuthMisconfigured:
		applied = ws.Recipes.Complete(seq, recipe.DemoRecipes(), true)
		if applied {
			ws.SetNotice(noticeDemo)
		}
	default:
		applied = ws.Recipes.Complete(seq, nil, false)
		if applied {
			ws.SetNotice(noticeRecipesFailed)
		}
	}
	if !applied {
		h.log.Info("discarded stale recipe response", zap.Uint64("seq", seq))
	}
}

// workspace returns the caller's workspace, issuing a session cookie when the request
// carries none or an invalid one.
func (h *Handler) workspace(c *gin.Context) *pantry.Workspace {
	id, err := c.Cookie(SessionCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	}
	return h.Workspaces.Get(id)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
