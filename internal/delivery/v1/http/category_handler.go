package http

import (
	"net/http"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// list
//
//	@Summary	Список категорий
//	@Tags		categories
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		CategoryResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Router		/categories [get]
func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryUsecase.List(r.Context(), SubjectFromContext(r.Context()))
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponses(categories))
}

// get
//
//	@Summary	Категория по slug
//	@Tags		categories
//	@Produce	json
//	@Security	BearerAuth
//	@Param		slug	path		string	true	"Slug категории"
//	@Success	200		{object}	CategoryResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{slug} [get]
func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryUsecase.Get(r.Context(), SubjectFromContext(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// create
//
//	@Summary	Создание категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		categoryRequest	true	"Категория"
//	@Success	201		{object}	CategoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/categories [post]
func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())

	if err := authorize(subject, access.Category, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	category, err := h.categoryUsecase.Create(r.Context(), subject, &usecase.CreateCategoryReq{Name: req.Name, Slug: req.Slug})
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

// replace
//
//	@Summary	Полное обновление категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		slug	path		string			true	"Slug категории"
//	@Param		body	body		categoryRequest	true	"Категория"
//	@Success	200		{object}	CategoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{slug} [put]
func (h *CategoryHandler) replace(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.Category, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	h.update(w, r, &usecase.UpdateCategoryReq{
		Slug:    chi.URLParam(r, "slug"),
		Name:    &req.Name,
		NewSlug: &req.Slug,
	})
}

// patch
//
//	@Summary	Частичное обновление категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		slug	path		string					true	"Slug категории"
//	@Param		body	body		categoryPatchRequest	true	"Изменённые поля"
//	@Success	200		{object}	CategoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{slug} [patch]
func (h *CategoryHandler) patch(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.Category, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	var req categoryPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	h.update(w, r, &usecase.UpdateCategoryReq{
		Slug:    chi.URLParam(r, "slug"),
		Name:    req.Name,
		NewSlug: req.Slug,
	})
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request, req *usecase.UpdateCategoryReq) {
	category, err := h.categoryUsecase.Update(r.Context(), SubjectFromContext(r.Context()), req)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// delete
//
//	@Summary	Удаление категории
//	@Description	Продукты и записи журнала категории остаются без категории
//	@Tags		categories
//	@Security	BearerAuth
//	@Param		slug	path	string	true	"Slug категории"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{slug} [delete]
func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryUsecase.Delete(r.Context(), SubjectFromContext(r.Context()), chi.URLParam(r, "slug")); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
