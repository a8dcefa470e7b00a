package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testFixture holds the seeded rows tests reach for by name.
type testFixture struct {
	Acme        model.Tenant
	Globex      model.Tenant
	AcmeAdmin   model.User
	AcmeUser    model.User
	GlobexAdmin model.User
	GlobexUser  model.User
}

// setupTest wires an in-memory database into the global pool, seeds two
// tenants with an admin and a member each, initializes the JWT utility
// and returns a router registered the same way as main.
func setupTest(t *testing.T) (*echo.Echo, *gorm.DB, *testFixture) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A second connection would see its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Tenant{}, &model.User{}, &model.Note{}))
	database.DB = db

	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})

	fx := seedTestData(t, db)

	e := echo.New()
	e.POST("/auth/login", Login)

	notes := e.Group("/notes")
	notes.Use(middleware.AuthMiddleware)
	notes.GET("", ListNotes)
	notes.POST("", CreateNote)
	notes.GET("/:id", GetNote)
	notes.PUT("/:id", UpdateNote)
	notes.DELETE("/:id", DeleteNote)

	tenants := e.Group("/tenants")
	tenants.Use(middleware.AuthMiddleware)
	tenants.POST("/:slug/upgrade", UpgradeTenant)

	return e, db, fx
}

func seedTestData(t *testing.T, db *gorm.DB) *testFixture {
	t.Helper()

	fx := &testFixture{
		Acme:   model.Tenant{Name: "Acme", Slug: "acme", Plan: model.PlanFree},
		Globex: model.Tenant{Name: "Globex", Slug: "globex", Plan: model.PlanFree},
	}
	require.NoError(t, db.Create(&fx.Acme).Error)
	require.NoError(t, db.Create(&fx.Globex).Error)

	// MinCost keeps the hashing overhead out of the tests
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	fx.AcmeAdmin = model.User{Email: "admin@acme.test", PasswordHash: string(hash), Role: model.RoleAdmin, TenantID: fx.Acme.ID}
	fx.AcmeUser = model.User{Email: "user@acme.test", PasswordHash: string(hash), Role: model.RoleMember, TenantID: fx.Acme.ID}
	fx.GlobexAdmin = model.User{Email: "admin@globex.test", PasswordHash: string(hash), Role: model.RoleAdmin, TenantID: fx.Globex.ID}
	fx.GlobexUser = model.User{Email: "user@globex.test", PasswordHash: string(hash), Role: model.RoleMember, TenantID: fx.Globex.ID}
	for _, u := range []*model.User{&fx.AcmeAdmin, &fx.AcmeUser, &fx.GlobexAdmin, &fx.GlobexUser} {
		require.NoError(t, db.Create(u).Error)
	}

	return fx
}

// tokenFor issues a valid identity token for the given seeded user.
func tokenFor(t *testing.T, user *model.User, tenantSlug string) string {
	t.Helper()
	token, err := jwtutil.GenerateToken(user, tenantSlug)
	require.NoError(t, err)
	return token
}

// doRequest performs a request against the test router and returns the
// recorder. An empty token leaves the Authorization header unset.
func doRequest(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
