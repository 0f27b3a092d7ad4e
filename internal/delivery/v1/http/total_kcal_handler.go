package http

import (
	"net/http"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type TotalKcalHandler struct {
	totalUsecase usecase.TotalKcalUC
	logger       logger.Logger
}

func NewTotalKcalHandler(totalUsecase usecase.TotalKcalUC, logger logger.Logger) *TotalKcalHandler {
	return &TotalKcalHandler{totalUsecase: totalUsecase, logger: logger}
}

// list
//
//	@Summary	Сумма калорий по дням
//	@Description	Только записи текущего пользователя, новые дни первыми
//	@Tags		total_kcal
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		DailyTotalResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/total_kcal [get]
func (h *TotalKcalHandler) list(w http.ResponseWriter, r *http.Request) {
	totals, err := h.totalUsecase.List(r.Context(), SubjectFromContext(r.Context()))
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toDailyTotalResponses(totals))
}

// get
//
//	@Summary	Сумма калорий за день
//	@Tags		total_kcal
//	@Produce	json
//	@Security	BearerAuth
//	@Param		date	path		string	true	"Дата YYYY-MM-DD"
//	@Success	200		{object}	DailyTotalResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse	"Записей за день нет"
//	@Router		/total_kcal/{date} [get]
func (h *TotalKcalHandler) get(w http.ResponseWriter, r *http.Request) {
	subject := SubjectFromContext(r.Context())
	if err := authorize(subject, access.DailyTotal, access.Read); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	total, err := h.totalUsecase.Get(r.Context(), subject, date)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toDailyTotalResponse(total))
}
