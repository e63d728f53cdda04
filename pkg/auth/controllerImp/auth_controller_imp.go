package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"farmwork/entities"
	"farmwork/pkg/auth/controller"
	"farmwork/pkg/middleware"
	"farmwork/pkg/response"
)

const devTokenTTL = 12 * time.Hour

type authCtrl struct{ secret []byte }

func NewAuthController(secret []byte) controller.AuthController { return &authCtrl{secret: secret} }

// DevToken mints a bearer token for local testing: ?uid=...&role=FARM_OWNER|WORKER.
func (h *authCtrl) DevToken(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = "dev"
	}
	role := entities.Role(c.QueryParam("role"))
	switch role {
	case "":
		role = entities.RoleFarmOwner
	case entities.RoleFarmOwner, entities.RoleWorker:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "role must be FARM_OWNER or WORKER")
	}
	tok, err := middleware.IssueToken(h.secret, uid, role, devTokenTTL)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, "Token issued", map[string]string{"token": tok, "sub": uid, "role": string(role)})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not logged in")
	}
	return response.OK(c, http.StatusOK, "Current principal", p)
}
