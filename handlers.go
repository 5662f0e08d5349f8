package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"memories/models"
	"memories/pkg/imagenorm"
	"memories/pkg/store"
)

// resource serves the four CRUD routes of one kind.
type resource[T any, P models.Patch[T]] struct {
	srv     *server
	repo    store.Repository[T, P]
	deleted string
}

func mount[T any, P models.Patch[T]](g *gin.RouterGroup, path string, s *server, repo store.Repository[T, P], deleted string) {
	r := &resource[T, P]{srv: s, repo: repo, deleted: deleted}
	g.GET(path, r.list)
	g.POST(path, r.create)
	g.PUT(path+"/:id", r.update)
	g.DELETE(path+"/:id", r.remove)
}

func (r *resource[T, P]) list(c *gin.Context) {
	items, err := r.repo.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (r *resource[T, P]) create(c *gin.Context) {
	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	if err := r.srv.prepareImage(&patch); err != nil {
		fail(c, err)
		return
	}
	rec, err := r.repo.Create(c.Request.Context(), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *resource[T, P]) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}
	if err := r.srv.prepareImage(&patch); err != nil {
		fail(c, err)
		return
	}
	rec, err := r.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *resource[T, P]) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := r.repo.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.deleted})
}

// prepareImage re-encodes an inline data URL image before it reaches the store.
// Plain URLs are stored as given.
func (s *server) prepareImage(patch any) error {
	carrier, ok := patch.(models.ImageCarrier)
	if !ok || !s.cfg.NormalizeImages {
		return nil
	}
	img, ok := carrier.Image()
	if !ok || !strings.HasPrefix(img, "data:") {
		return nil
	}
	normalized, err := imagenorm.NormalizeDataURL(img)
	if err != nil {
		return err
	}
	carrier.SetImage(normalized)
	return nil
}

// uploadImageHandler normalizes a multipart "file" upload and hands the data URL back
// for the client to put into imageUrl.
func (s *server) uploadImageHandler(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		bindError(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()
	dataURL, err := imagenorm.Normalize(f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": dataURL})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// fail maps domain errors to status codes. Anything unexpected is logged and
// reported as a bare 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, imagenorm.ErrImageRead), errors.Is(err, imagenorm.ErrImageDecode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
