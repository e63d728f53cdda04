package controllerImp

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"farmwork/entities"
	"farmwork/pkg/apperror"
	"farmwork/pkg/assignment/controller"
	"farmwork/pkg/assignment/repository"
	"farmwork/pkg/assignment/service"
	"farmwork/pkg/response"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AssignmentCtrl struct{ svc service.AssignmentService }

var _ controller.AssignmentController = (*AssignmentCtrl)(nil)

func New(svc service.AssignmentService) *AssignmentCtrl { return &AssignmentCtrl{svc: svc} }

// bind decodes and validates the body. Decoding failures are reported as
// validation errors so they share the error envelope.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Validation("body", "invalid JSON")
	}
	return c.Validate(dst)
}

func (h *AssignmentCtrl) Create(c echo.Context) error {
	var req createReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, "Assignment created successfully", a)
}

func (h *AssignmentCtrl) List(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return err
	}
	var q service.PageQuery
	err = echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("sortBy", &q.SortBy).
		String("sortOrder", &q.SortOrder).
		BindError()
	if err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return apperror.Validation(be.Field, "must be an integer")
		}
		return apperror.Validation("query", err.Error())
	}

	res, err := h.svc.List(c.Request().Context(), f, q)
	if err != nil {
		return err
	}
	return response.Page(c, "Assignments retrieved successfully", res.Data, res.Meta)
}

func (h *AssignmentCtrl) Statistics(c echo.Context) error {
	st, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment statistics retrieved successfully", st)
}

func (h *AssignmentCtrl) ListByDate(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return apperror.Validation("date", "is required")
	}
	out, err := h.svc.ListByDate(c.Request().Context(), date)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignments retrieved successfully", nonNil(out))
}

func (h *AssignmentCtrl) ListByWorker(c echo.Context) error {
	out, err := h.svc.ListByWorker(c.Request().Context(), c.Param("workerId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Worker assignments retrieved successfully", nonNil(out))
}

// Payroll renders into memory first so a failure still gets a JSON error
// instead of a truncated workbook.
func (h *AssignmentCtrl) Payroll(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.svc.Payroll(c.Request().Context(), f, &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="payroll.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (h *AssignmentCtrl) Get(c echo.Context) error {
	a, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment retrieved successfully", a)
}

func (h *AssignmentCtrl) Update(c echo.Context) error {
	var req patchReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.svc.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment updated successfully", a)
}

func (h *AssignmentCtrl) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), entities.WorkStatus(req.Status))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment status updated successfully", a)
}

func (h *AssignmentCtrl) Start(c echo.Context) error {
	a, err := h.svc.Start(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment started successfully", a)
}

func (h *AssignmentCtrl) Complete(c echo.Context) error {
	a, err := h.svc.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment completed successfully", a)
}

func (h *AssignmentCtrl) Cancel(c echo.Context) error {
	a, err := h.svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment cancelled successfully", a)
}

func (h *AssignmentCtrl) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Assignment deleted successfully", nil)
}

func filterFrom(c echo.Context) (repository.Filter, error) {
	f := repository.Filter{
		WorkerID:   c.QueryParam("workerId"),
		LandPlotID: c.QueryParam("landPlotId"),
		CropType:   c.QueryParam("cropType"),
	}
	if v := c.QueryParam("status"); v != "" {
		st, err := entities.ParseWorkStatus(v)
		if err != nil {
			return f, apperror.Validation("status", err.Error())
		}
		f.Status = st
	}
	if v := c.QueryParam("paymentStatus"); v != "" {
		ps, err := entities.ParsePaymentStatus(v)
		if err != nil {
			return f, apperror.Validation("paymentStatus", err.Error())
		}
		f.PaymentStatus = ps
	}
	// the service resolves the day in the farm's zone
	f.WorkDate = c.QueryParam("workDate")
	return f, nil
}

func nonNil(as []entities.Assignment) []entities.Assignment {
	if as == nil {
		return []entities.Assignment{}
	}
	return as
}
