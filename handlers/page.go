package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"slotfinder/middleware"
	"slotfinder/services/search"
	"slotfinder/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sessionCookie = "slotfinder_session"
	pageTemplate  = "index.html"
)

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

type searchForm struct {
	Lat                 float64 `form:"lat" binding:"required"`
	Lng                 float64 `form:"lng" binding:"required"`
	FromDate            string  `form:"fromDate" binding:"required"`
	ToDate              string  `form:"toDate"`
	MinSlots            int     `form:"minSlots" binding:"min=0"`
	MaxNearestLocations int     `form:"maxNearestLocations" binding:"min=0"`
	Mode                string  `form:"mode"`
}

// PageOptions configures the search page.
type PageOptions struct {
	Sessions            session.Store
	Backend             search.Backend
	Locator             search.PositionLocator
	ClearOnSearch       bool
	DefaultMaxLocations int
	Now                 func() time.Time
}

// PageHandler serves the server-rendered search page.
type PageHandler struct {
	opts PageOptions
}

func NewPageHandler(opts PageOptions) *PageHandler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultMaxLocations <= 0 {
		opts.DefaultMaxLocations = search.DefaultMaxNearestLocations
	}
	return &PageHandler{opts: opts}
}

func (h *PageHandler) freshState() session.State {
	return session.State{
		FromDate:            h.opts.Now().Format("2006-01-02"),
		MinSlots:            1,
		MaxNearestLocations: h.opts.DefaultMaxLocations,
		Mode:                string(search.ModePerLocation),
	}
}

func (h *PageHandler) loadSession(c *gin.Context) (string, session.State) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !session.ValidID(id) {
		id = session.NewID()
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
		return id, h.freshState()
	}
	state, ok, err := h.opts.Sessions.Load(c.Request.Context(), id)
	if err != nil {
		getLogger(c).Warn("failed to load page session", zap.Error(err))
	}
	if !ok {
		return id, h.freshState()
	}
	return id, state
}

func (h *PageHandler) saveSession(c *gin.Context, id string, state session.State) {
	if err := h.opts.Sessions.Save(c.Request.Context(), id, state); err != nil {
		getLogger(c).Error("failed to save page session", zap.Error(err))
	}
}

func (h *PageHandler) searcher(c *gin.Context, state session.State, status search.StatusSink) *search.Searcher {
	return &search.Searcher{
		Backend:       h.opts.Backend,
		Locator:       h.opts.Locator,
		Status:        status,
		Table:         search.NewTable(state.Rows...),
		ClearOnSearch: h.opts.ClearOnSearch,
		Logger:        getLogger(c),
	}
}

// Index handles GET /. The first visit tries to locate the caller to prefill
// the coordinates.
func (h *PageHandler) Index(c *gin.Context) {
	id, state := h.loadSession(c)

	if !state.Located && h.opts.Locator != nil {
		status := &search.StatusLine{Text: state.Status}
		pos, err := h.searcher(c, state, status).Locate(c.Request.Context(), middleware.ClientIP(c))
		if err == nil {
			state.Lat, state.Lng = pos.Lat, pos.Lng
			state.City, state.Street = pos.City, pos.Street
		}
		state.Status = status.Text
		state.Located = true
		h.saveSession(c, id, state)
	}

	c.HTML(http.StatusOK, pageTemplate, state)
}

// Search handles POST /search.
func (h *PageHandler) Search(c *gin.Context) {
	id, state := h.loadSession(c)

	var form searchForm
	if err := c.ShouldBind(&form); err != nil {
		state.Status = fmt.Sprintf("Invalid search: %v", err)
		h.saveSession(c, id, state)
		c.HTML(http.StatusBadRequest, pageTemplate, state)
		return
	}
	mode, err := search.ParseMode(form.Mode)
	if err != nil {
		state.Status = err.Error()
		h.saveSession(c, id, state)
		c.HTML(http.StatusBadRequest, pageTemplate, state)
		return
	}

	state.Lat, state.Lng = form.Lat, form.Lng
	state.FromDate, state.ToDate = form.FromDate, form.ToDate
	state.MinSlots, state.MaxNearestLocations = form.MinSlots, form.MaxNearestLocations
	state.Mode = string(mode)

	status := &search.StatusLine{}
	s := h.searcher(c, state, status)
	if _, err := s.Search(c.Request.Context(), search.Params{
		Lat:                 form.Lat,
		Lng:                 form.Lng,
		FromDate:            form.FromDate,
		ToDate:              form.ToDate,
		MinSlots:            form.MinSlots,
		MaxNearestLocations: form.MaxNearestLocations,
		Mode:                mode,
	}); err != nil {
		getLogger(c).Warn("search failed", zap.Error(err))
	}

	state.Rows = s.Table.Rows()
	state.Status = status.Text
	h.saveSession(c, id, state)
	c.Redirect(http.StatusSeeOther, "/")
}

// Clear handles POST /search/clear.
func (h *PageHandler) Clear(c *gin.Context) {
	id, state := h.loadSession(c)
	state.Rows = nil
	state.Status = ""
	h.saveSession(c, id, state)
	c.Redirect(http.StatusSeeOther, "/")
}
