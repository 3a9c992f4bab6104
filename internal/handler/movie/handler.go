package movie

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-movies/backend/internal/model/movie"
	movieservice "github.com/zhouzirui/z-movies/backend/internal/service/movie"
	"github.com/zhouzirui/z-movies/backend/pkg/utils"
)

// MovieService 抽象影片业务，便于测试与替换实现
type MovieService interface {
	List(ctx context.Context) []movie.Movie
	ListWatched(ctx context.Context) []movie.Movie
	Get(ctx context.Context, id int) (movie.Movie, error)
	FindTitle(ctx context.Context, title string) (string, error)
	Create(ctx context.Context, m movie.Movie) movie.Movie
	Update(ctx context.Context, id int, m movie.Movie) (movie.Movie, error)
	Delete(ctx context.Context, id int) (movie.Movie, error)
}

// Handler 影片服务的HTTP处理器
type Handler struct {
	movies MovieService
	logger *zap.Logger
}

// New 创建影片处理器
func New(movies MovieService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		movies: movies,
		logger: logger,
	}
}

// RegisterRoutes 注册影片相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/movies", func(mr chi.Router) {
		mr.Get("/", h.handleList)
		mr.Post("/", h.handleCreate)
		mr.Get("/complete", h.handleListWatched)
		mr.Get("/title/{title}", h.handleGetTitle)
		mr.Get("/{id}", h.handleGet)
		mr.Put("/{id}", h.handleUpdate)
		mr.Delete("/{id}", h.handleDelete)
	})
}

// handleList 列出全部影片
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.movies.List(r.Context()))
}

// handleListWatched 列出已观看的影片
func (h *Handler) handleListWatched(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.movies.ListWatched(r.Context()))
}

// handleGet 按ID获取影片
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	m, err := h.movies.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, m)
}

// handleGetTitle 按标题精确匹配，仅返回标题
func (h *Handler) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	if r.URL.RawPath != "" {
		// chi 在存在 RawPath 时返回未解码的片段
		unescaped, err := url.PathUnescape(title)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid title")
			return
		}
		title = unescaped
	}

	found, err := h.movies.FindTitle(r.Context(), title)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondText(w, http.StatusOK, found)
}

// handleCreate 创建影片
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMovie(w, r)
	if !ok {
		return
	}

	created := h.movies.Create(r.Context(), payload)
	w.Header().Set("Location", "/movies/"+strconv.Itoa(created.ID))
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleUpdate 更新影片的标题与观看状态
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	payload, ok := decodeMovie(w, r)
	if !ok {
		return
	}

	if _, err := h.movies.Update(r.Context(), id, payload); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondStatus(w, http.StatusNoContent)
}

// handleDelete 删除影片并返回被删除的记录
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.movies.Delete(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, deleted)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, movieservice.ErrNotFound) {
		utils.RespondStatus(w, http.StatusNotFound)
		return
	}
	h.logger.Error("movie operation failed", zap.Error(err))
	utils.RespondError(w, http.StatusInternalServerError, "internal error")
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func decodeMovie(w http.ResponseWriter, r *http.Request) (movie.Movie, bool) {
	var payload movie.Movie
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return movie.Movie{}, false
	}
	return payload, true
}
