package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/machmudeffendi/backend-assessment-test/internal/domain"
	"github.com/machmudeffendi/backend-assessment-test/internal/service"
	customError "github.com/machmudeffendi/backend-assessment-test/pkg/errors"
	"github.com/machmudeffendi/backend-assessment-test/pkg/response"
	"github.com/machmudeffendi/backend-assessment-test/pkg/utils"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BusinessError(w, customError.WrapInvalidArgument(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		response.BadRequest(w, "owner_id must be a valid UUID", err)
		return
	}

	processedAt, err := utils.ParseDate(req.ProcessedAt)
	if err != nil {
		response.BadRequest(w, "processed_at must be a YYYY-MM-DD date", err)
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), ownerID, req.Amount, req.CurrencyCode, req.Terms, processedAt)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{
		Loan:     loan,
		Schedule: schedule,
	})
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	loan, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.LoanResponse{
		Loan:              loan,
		OutstandingAmount: loan.OutstandingAmount,
		DisplayAmount:     utils.FormatMinorUnits(loan.OutstandingAmount),
	})
}

// GetSchedule handles GET /api/v1/loans/{loanId}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{
		LoanID:   loanID.String(),
		Schedule: schedule,
	})
}

// GetOutstanding handles GET /api/v1/loans/{loanId}/outstanding
func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.OutstandingResponse{
		LoanID:        loanID.String(),
		Outstanding:   outstanding,
		DisplayAmount: utils.FormatMinorUnits(outstanding),
	})
}

// RepayLoan handles POST /api/v1/loans/{loanId}/repayments
func (h *LoanHandler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	var req domain.RepayLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BusinessError(w, customError.WrapInvalidArgument(err.Error()))
		return
	}

	receivedAt, err := utils.ParseDate(req.ReceivedAt)
	if err != nil {
		response.BadRequest(w, "received_at must be a YYYY-MM-DD date", err)
		return
	}

	loan, err := h.service.RepayLoan(r.Context(), loanID, req.Amount, req.CurrencyCode, receivedAt)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.LoanResponse{
		Loan:              loan,
		OutstandingAmount: loan.OutstandingAmount,
		DisplayAmount:     utils.FormatMinorUnits(loan.OutstandingAmount),
	})
}

// GetReceivedRepayments handles GET /api/v1/loans/{loanId}/repayments
func (h *LoanHandler) GetReceivedRepayments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.loanID(w, r)
	if !ok {
		return
	}

	repayments, err := h.service.GetReceivedRepayments(r.Context(), loanID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.ReceivedRepaymentsResponse{
		LoanID:     loanID.String(),
		Repayments: repayments,
	})
}

func (h *LoanHandler) loanID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "loanId must be a valid UUID", err)
		return uuid.Nil, false
	}
	return loanID, true
}
