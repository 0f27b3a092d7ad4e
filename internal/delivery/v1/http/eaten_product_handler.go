package http

import (
	"net/http"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
)

// EatenProductHandler обслуживает журнал питания текущего пользователя (/my_products).
type EatenProductHandler struct {
	eatenUsecase usecase.EatenProductUC
	logger       logger.Logger
}

func NewEatenProductHandler(eatenUsecase usecase.EatenProductUC, logger logger.Logger) *EatenProductHandler {
	return &EatenProductHandler{eatenUsecase: eatenUsecase, logger: logger}
}

// list
//
//	@Summary	Журнал питания
//	@Tags		my_products
//	@Produce	json
//	@Security	BearerAuth
//	@Param		category			query		string	false	"Slug категории"
//	@Param		publication_date	query		string	false	"Дата YYYY-MM-DD"
//	@Param		search				query		string	false	"Подстрока названия продукта"
//	@Success	200					{array}		EatenProductResponse
//	@Failure	400					{object}	ErrorResponse
//	@Failure	401					{object}	ErrorResponse
//	@Router		/my_products [get]
func (h *EatenProductHandler) list(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.EatenProduct, access.Read); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	filter := usecase.EatenProductFilter{
		CategorySlug: optionalQuery(r, "category"),
		Search:       r.URL.Query().Get("search"),
	}
	if raw := optionalQuery(r, "publication_date"); raw != nil {
		date, err := parseDate(*raw)
		if err != nil {
			handleError(h.logger, w, r, err)
			return
		}
		filter.PublicationDate = &date
	}

	items, err := h.eatenUsecase.List(r.Context(), subject, filter)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toEatenProductResponses(items))
}

// get
//
//	@Summary	Запись журнала
//	@Tags		my_products
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID записи"
//	@Success	200	{object}	EatenProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/my_products/{id} [get]
func (h *EatenProductHandler) get(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.EatenProduct, access.Read); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	item, err := h.eatenUsecase.Get(r.Context(), subject, id)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toEatenProductResponse(item))
}

// create
//
//	@Summary	Добавить съеденный продукт
//	@Description	Калории считаются на сервере, дата и пользователь проставляются автоматически
//	@Tags		my_products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		eatenProductRequest	true	"Продукт и вес"
//	@Success	201		{object}	EatenProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse	"Продукт не найден"
//	@Router		/my_products [post]
func (h *EatenProductHandler) create(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.EatenProduct, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	var req eatenProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	item, err := h.eatenUsecase.Create(r.Context(), subject, &usecase.CreateEatenProductReq{
		ProductID: req.Product,
		Weight:    req.Weight,
	})
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toEatenProductResponse(item))
}

// replace
//
//	@Summary	Полное обновление записи
//	@Tags		my_products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID записи"
//	@Param		body	body		eatenProductRequest	true	"Продукт и вес"
//	@Success	200		{object}	EatenProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/my_products/{id} [put]
func (h *EatenProductHandler) replace(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.EatenProduct, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	var req eatenProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	h.update(w, r, &usecase.UpdateEatenProductReq{ID: id, ProductID: &req.Product, Weight: &req.Weight})
}

// patch
//
//	@Summary	Частичное обновление записи
//	@Tags		my_products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int							true	"ID записи"
//	@Param		body	body		eatenProductPatchRequest	true	"Изменённые поля"
//	@Success	200		{object}	EatenProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/my_products/{id} [patch]
func (h *EatenProductHandler) patch(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.EatenProduct, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	var req eatenProductPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	h.update(w, r, &usecase.UpdateEatenProductReq{ID: id, ProductID: req.Product, Weight: req.Weight})
}

func (h *EatenProductHandler) update(w http.ResponseWriter, r *http.Request, req *usecase.UpdateEatenProductReq) {
	item, err := h.eatenUsecase.Update(r.Context(), SubjectFromContext(r.Context()), req)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toEatenProductResponse(item))
}

// delete
//
//	@Summary	Удалить запись журнала
//	@Tags		my_products
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID записи"
//	@Success	204
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/my_products/{id} [delete]
func (h *EatenProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.EatenProduct, access.Write); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	if err := h.eatenUsecase.Delete(r.Context(), subject, id); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
