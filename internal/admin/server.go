package admin

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/filesify"
	"github.com/dmitrijs2005/filesify/internal/logging"
	"github.com/dmitrijs2005/filesify/internal/models"
	"github.com/dmitrijs2005/filesify/internal/repositories/records"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	site    *Site
	manager *filesify.Manager
	logger  logging.Logger
	secret  []byte
	engine  *gin.Engine
}

func NewServer(address string, site *Site, manager *filesify.Manager, logger logging.Logger, secretKey string) *Server {
	s := &Server{
		address: address,
		site:    site,
		manager: manager,
		logger:  logger.With("module", "admin_server"),
		secret:  []byte(secretKey),
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/admin", s.requireToken())
	g.GET("/", s.index)
	g.GET("/:model/", s.list)
	g.POST("/:model/", s.create)
	g.GET("/:model/:id", s.detail)
	g.PUT("/:model/:id", s.update)
	g.POST("/:model/actions/:action", s.runAction)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping admin server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting admin server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registration(c *gin.Context) (*registration, bool) {
	reg, ok := s.site.lookup(c.Param("model"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown model " + c.Param("model")})
		return nil, false
	}
	return reg, true
}

func (s *Server) fail(c *gin.Context, err error) {
	var pe *fs.PathError
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, records.ErrFilePathRequired), errors.Is(err, records.ErrFilePathTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &pe):
		s.logger.Error(c.Request.Context(), "file sync failed", "path", pe.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		s.logger.Error(c.Request.Context(), "admin request failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type actionInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type modelInfo struct {
	Model       string       `json:"model"`
	ListDisplay []string     `json:"list_display"`
	Fields      []string     `json:"fields"`
	Actions     []actionInfo `json:"actions"`
}

func (s *Server) index(c *gin.Context) {
	out := []modelInfo{}
	for _, reg := range s.site.registrations() {
		info := modelInfo{
			Model:       reg.model.String(),
			ListDisplay: reg.admin.ListDisplay,
			Fields:      reg.admin.Fields,
			Actions:     []actionInfo{},
		}
		for _, a := range reg.admin.Actions {
			info.Actions = append(info.Actions, actionInfo{Name: a.Name, Description: a.Description})
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}

func (s *Server) list(c *gin.Context) {
	reg, ok := s.registration(c)
	if !ok {
		return
	}

	recs, err := s.manager.List(c.Request.Context(), reg.model)
	if err != nil {
		s.fail(c, err)
		return
	}

	results := make([]map[string]string, 0, len(recs))
	for _, rec := range recs {
		results = append(results, row(rec, reg.admin.ListDisplay))
	}
	c.JSON(http.StatusOK, gin.H{
		"model":   reg.model.String(),
		"columns": reg.admin.ListDisplay,
		"results": results,
	})
}

func (s *Server) detail(c *gin.Context) {
	reg, ok := s.registration(c)
	if !ok {
		return
	}

	rec, err := s.manager.Get(c.Request.Context(), reg.model, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row(rec, reg.admin.Fields))
}

func (s *Server) create(c *gin.Context) {
	reg, ok := s.registration(c)
	if !ok {
		return
	}

	var form map[string]string
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := &models.Record{}
	applyForm(rec, reg.admin, form)
	if rec.FilePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": records.ErrFilePathRequired.Error()})
		return
	}

	if err := s.manager.Save(c.Request.Context(), reg.model, rec); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, row(rec, reg.admin.Fields))
}

func (s *Server) update(c *gin.Context) {
	reg, ok := s.registration(c)
	if !ok {
		return
	}

	var form map[string]string
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	rec, err := s.manager.Get(ctx, reg.model, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	applyForm(rec, reg.admin, form)
	if rec.FilePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": records.ErrFilePathRequired.Error()})
		return
	}

	if err := s.manager.Save(ctx, reg.model, rec); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, row(rec, reg.admin.Fields))
}

type actionRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (s *Server) runAction(c *gin.Context) {
	reg, ok := s.registration(c)
	if !ok {
		return
	}

	action, ok := reg.admin.action(c.Param("action"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown action " + c.Param("action")})
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := action.Run(c.Request.Context(), s.manager, reg.model, req.IDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info(c.Request.Context(), "admin action", "model", reg.model.String(), "action", action.Name, "affected", n)
	c.JSON(http.StatusOK, gin.H{"action": action.Name, "affected": n})
}
