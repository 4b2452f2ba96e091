package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/military-assets-api/internal/domain/access"
	apphttp "github.com/jhoicas/military-assets-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/military-assets-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testBaseID    = "base-alpha"
	testIssuer    = "military-assets-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware,
// RequireAction para la acción indicada y un handler que devuelve 200.
func buildTestApp(action access.Action) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireAction(action),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"role": apphttp.GetRole(c)})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado y la base de prueba.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testBaseID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireAction: matriz de permisos completa
// ──────────────────────────────────────────────────────────────────────────────

// permissionMatrix una fila por acción con los roles habilitados; el resto de
// access.Roles() debe recibir 403.
var permissionMatrix = []struct {
	action  access.Action
	allowed []access.Role
}{
	{access.ActionCreatePurchase, []access.Role{access.RoleAdmin, access.RoleLogisticsOfficer}},
	{access.ActionCreateTransfer, []access.Role{access.RoleAdmin, access.RoleLogisticsOfficer}},
	{access.ActionCreateAssignment, []access.Role{access.RoleAdmin, access.RoleBaseCommander, access.RoleLogisticsOfficer}},
	{access.ActionCreateExpenditure, []access.Role{access.RoleAdmin, access.RoleBaseCommander}},
	{access.ActionReadAuditLog, []access.Role{access.RoleAdmin}},
}

func TestRequireAction_MatrizDePermisos(t *testing.T) {
	for _, row := range permissionMatrix {
		app := buildTestApp(row.action)
		for _, role := range access.Roles() {
			allowed := slices.Contains(row.allowed, role)
			t.Run(string(row.action)+"/"+role.String(), func(t *testing.T) {
				resp := doRequest(t, app, tokenForRole(t, role.String()))
				defer resp.Body.Close()

				if allowed {
					assert.Equal(t, http.StatusOK, resp.StatusCode)
					return
				}
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), "FORBIDDEN")
			})
		}
	}
}

func TestRequireAction_MatrizCoincideConDominio(t *testing.T) {
	for _, row := range permissionMatrix {
		assert.ElementsMatch(t, row.allowed, access.RolesFor(row.action), string(row.action))
	}
}

func TestRequireAction_RolDesconocido_Retorna403(t *testing.T) {
	app := buildTestApp(access.ActionCreatePurchase)
	resp := doRequest(t, app, tokenForRole(t, "quartermaster"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAction_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(access.ActionCreatePurchase)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(access.ActionReadAuditLog)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(access.ActionReadAuditLog)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		scope, err := apphttp.GetScope(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"base_id": apphttp.GetBaseID(c),
			"role":    apphttp.GetRole(c),
			"admin":   scope.IsAdmin(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "base_commander"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testBaseID, body["base_id"])
	assert.Equal(t, "base_commander", body["role"])
	assert.Equal(t, false, body["admin"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", "", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", "", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
