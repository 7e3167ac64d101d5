package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/internal/webserver"
	"github.com/talkincode/toughpos/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// registerAuthRoutes registers operator login, logout and API token issuing
func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
	webserver.PubPOST("/auth/logout", logout)
	webserver.PubPOST("/auth/token", issueToken)
}

func checkOperator(c echo.Context, username, password string) (*domain.SysOpr, string) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "Username and password are required"
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", username).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "Invalid username or password"
	} else if err != nil {
		return nil, "Failed to query operator"
	}

	if opr.Status != common.ENABLED {
		return nil, "Operator is disabled"
	}
	if opr.Password != common.Sha256HashWithSalt(password, common.GetSecretSalt()) {
		return nil, "Invalid username or password"
	}
	return &opr, ""
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login data", nil)
	}

	opr, msg := checkOperator(c, payload.Username, payload.Password)
	if opr == nil {
		return fail(c, http.StatusUnauthorized, "LOGIN_FAILED", msg, nil)
	}

	sess, err := session.Get(webserver.SessionName, c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to open session", nil)
	}
	sess.Values[webserver.SessionUserKey] = opr.Username
	sess.Values[webserver.SessionLevelKey] = opr.Level
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session", nil)
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
	webserver.OpLog(c, "login", "operator "+opr.Username)

	return ok(c, echo.Map{"username": opr.Username, "level": opr.Level})
}

func logout(c echo.Context) error {
	sess, err := session.Get(webserver.SessionName, c)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return ok(c, echo.Map{"message": "Logged out"})
}

// issueToken returns a bearer token for non-browser API clients.
func issueToken(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login data", nil)
	}

	opr, msg := checkOperator(c, payload.Username, payload.Password)
	if opr == nil {
		return fail(c, http.StatusUnauthorized, "LOGIN_FAILED", msg, nil)
	}

	claims := jwt.MapClaims{
		"sub":   opr.Username,
		"level": opr.Level,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(webserver.GetApp(c).Config().Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", nil)
	}

	return ok(c, echo.Map{"token": signed, "expires_in": 86400})
}
