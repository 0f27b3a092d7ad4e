package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// list
//
//	@Summary	Список продуктов
//	@Description	Доступен всем, в том числе без авторизации
//	@Tags		products
//	@Produce	json
//	@Param		category	query		string	false	"Slug категории"
//	@Param		search		query		string	false	"Подстрока названия без учёта регистра"
//	@Success	200			{array}		ProductResponse
//	@Router		/products [get]
func (p *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.List(r.Context(), usecase.ProductFilter{
		CategorySlug: optionalQuery(r, "category"),
		Search:       r.URL.Query().Get("search"),
	})
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// get
//
//	@Summary	Продукт по id
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.Get(r.Context(), id)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// create
//
//	@Summary	Создание продукта
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		productRequest	true	"Продукт"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure	403		{object}	ErrorResponse
//	@Router		/products [post]
func (p *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.Product, access.Write); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), subject, req.toCreateReq())
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	p.logger.Infof("Product %d %q created", product.ID, product.Name)
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// replace
//
//	@Summary	Полное обновление продукта
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int				true	"ID продукта"
//	@Param		body	body		productRequest	true	"Продукт"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) replace(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.Product, access.Write); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	p.update(w, r, req.toUpdateReq(id))
}

// patch
//
//	@Summary	Частичное обновление продукта
//	@Description	"category": null снимает категорию, отсутствие поля оставляет её как есть
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"ID продукта"
//	@Param		body	body		productPatchRequest	true	"Изменённые поля"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [patch]
func (p *ProductHandler) patch(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.Product, access.Write); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	var req productPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	p.update(w, r, req.toUpdateReq(id))
}

func (p *ProductHandler) update(w http.ResponseWriter, r *http.Request, req *usecase.UpdateProductReq) {
	product, err := p.productUsecase.Update(r.Context(), SubjectFromContext(r.Context()), req)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// delete
//
//	@Summary	Удаление продукта
//	@Description	Удаляет и записи журнала с этим продуктом
//	@Tags		products
//	@Security	BearerAuth
//	@Param		id	path	int	true	"ID продукта"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	if err := p.productUsecase.Delete(r.Context(), SubjectFromContext(r.Context()), id); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadImage
//
//	@Summary	Загрузка изображения продукта
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int		true	"ID продукта"
//	@Param		image	formData	file	true	"Изображение jpeg, png или webp до 15 МиБ"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	413		{object}	ErrorResponse
//	@Failure	415		{object}	ErrorResponse
//	@Router		/products/{id}/image [put]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = usecase.MaxImageSize + 1<<20
		maxMemory           = 32 << 20
	)

	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.Product, access.Write); err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		handleError(p.logger, w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	image, err := parseImage(r.MultipartForm.File["image"])
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	product, err := p.productUsecase.UploadImage(r.Context(), subject, &usecase.UploadProductImageReq{ProductID: id, Image: *image})
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// getImage
//
//	@Summary	Изображение продукта
//	@Tags		products
//	@Produce	image/jpeg,image/png,image/webp
//	@Param		id	path	int	true	"ID продукта"
//	@Success	200	{file}	binary
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/image [get]
func (p *ProductHandler) getImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}

	img, err := p.productUsecase.GetImage(r.Context(), id)
	if err != nil {
		handleError(p.logger, w, r, err)
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	if img.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, img.Body); err != nil {
		p.logger.Warnf("stream image of product %d: %v", id, err)
	}
}
