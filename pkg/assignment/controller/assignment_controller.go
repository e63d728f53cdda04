package controller

import "github.com/labstack/echo/v4"

type AssignmentController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Statistics(c echo.Context) error
	ListByDate(c echo.Context) error
	ListByWorker(c echo.Context) error
	Payroll(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	UpdateStatus(c echo.Context) error
	Start(c echo.Context) error
	Complete(c echo.Context) error
	Cancel(c echo.Context) error
	Delete(c echo.Context) error
}
