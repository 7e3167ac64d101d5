// Package webserver owns the HTTP boundary: Echo bootstrap, middleware,
// route registration helpers and the async operation log writer.
package webserver

import (
	"fmt"
	"time"

	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/config"
	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/internal/pos"
	"github.com/talkincode/toughpos/pkg/common"
)

const (
	SessionName     = "toughpos_session"
	SessionUserKey  = "username"
	SessionLevelKey = "level"
	appContextKey   = "toughpos_app"
)

// AppContext is what the HTTP layer needs from the application.
type AppContext interface {
	Config() *config.AppConfig
	DB() *gorm.DB
	PosService() *pos.Service
	GetSettingsStringValue(category, key string) string
	SendReceiptEmail(to, subject, body string) error
}

type WebServer struct {
	app    AppContext
	root   *echo.Echo
	api    *echo.Group
	oplogs *ants.Pool
}

var server *WebServer

// jsonSerializer plugs json-iterator into Echo.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	return jsoniter.NewDecoder(c.Request().Body).Decode(i)
}

// Init builds the Echo server and middleware chain for the given application.
func Init(app AppContext) *WebServer {
	cfg := app.Config()

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, app)
			return next(c)
		}
	})

	pool, err := ants.NewPool(8, ants.WithNonblocking(true))
	if err != nil {
		zap.S().Errorf("init oplog pool error: %s", err)
	}

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
		Skipper: func(c echo.Context) bool {
			// Session login from the browser UI skips bearer auth.
			return SessionUsername(c) != ""
		},
	}))

	server = &WebServer{app: app, root: e, api: api, oplogs: pool}
	return server
}

// Listen starts serving on the configured address, blocking until shutdown.
func (ws *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", ws.app.Config().Web.Host, ws.app.Config().Web.Port)
	zap.S().Infof("webserver listen %s", addr)
	return ws.root.Start(addr)
}

// Echo exposes the root engine (tests drive it with httptest).
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

// GetApp fetches the application context injected by middleware.
func GetApp(c echo.Context) AppContext {
	return c.Get(appContextKey).(AppContext)
}

// SessionUsername returns the logged-in operator name, or "".
func SessionUsername(c echo.Context) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}
	if username, ok := sess.Values[SessionUserKey].(string); ok {
		return username
	}
	return ""
}

// ApiGET registers an authenticated GET route under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /api.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /api.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /api.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// PubGET registers an unauthenticated GET route.
func PubGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

// PubPOST registers an unauthenticated POST route.
func PubPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

// OpLog records a mutating API call asynchronously; the handler never waits
// on the insert.
func OpLog(c echo.Context, action, desc string) {
	ws, ok := c.Get(appContextKey).(AppContext)
	if !ok {
		return
	}
	row := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   SessionUsername(c),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if server == nil || server.oplogs == nil {
		ws.DB().Create(&row)
		return
	}
	if err := server.oplogs.Submit(func() {
		if err := ws.DB().Create(&row).Error; err != nil {
			zap.S().Errorf("write oplog error: %s", err)
		}
	}); err != nil {
		ws.DB().Create(&row)
	}
}
