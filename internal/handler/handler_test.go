package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go-student-center/internal/middleware"
	"go-student-center/internal/repository"
	"go-student-center/internal/service"
	"go-student-center/internal/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db := testdb.New(t)
	logger := zaptest.NewLogger(t)

	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	eventRepo := repository.NewEventRepo(db)
	treasuryRepo := repository.NewTreasuryRepo(db)
	periodRepo := repository.NewPeriodRepo(db)
	memberRepo := repository.NewMemberRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	app := fiber.New()
	app.Use(middleware.RequestID(), middleware.Actor())
	app.Get("/health", NewHealthHandler(db, "test").Check)
	Register(app, Handlers{
		Sale:      NewSaleHandler(service.NewSaleService(db, saleRepo, productRepo, eventRepo, treasuryRepo, nil, nil, logger)),
		Product:   NewProductHandler(service.NewProductService(db, productRepo, saleRepo, eventRepo, treasuryRepo, nil, nil, logger, 10)),
		Event:     NewEventHandler(service.NewEventService(db, eventRepo, periodRepo, saleRepo, treasuryRepo, nil, logger)),
		Treasury:  NewTreasuryHandler(service.NewTreasuryService(treasuryRepo, eventRepo, nil, nil, logger)),
		Dashboard: NewDashboardHandler(service.NewDashboardService(repository.NewDashboardRepo(db), nil, logger, 10)),
		Member:    NewMemberHandler(service.NewMemberService(memberRepo, roleRepo, logger)),
		Period:    NewPeriodHandler(service.NewPeriodService(periodRepo, memberRepo, roleRepo, nil, logger)),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, "tesorero")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out.Bytes()
}

func createProduct(t *testing.T, app *fiber.App, stock int) uuid.UUID {
	t.Helper()

	status, body := do(t, app, "POST", "/api/v1/products", fiber.Map{
		"name":           "Alfajor",
		"stock":          stock,
		"purchase_price": "1.00",
		"sale_price":     "2.50",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var resp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data.ID
}

func TestSaleEndpoints(t *testing.T) {
	app := newTestApp(t)
	productID := createProduct(t, app, 3)

	status, body := do(t, app, "POST", "/api/v1/sales", fiber.Map{
		"product_id":     productID,
		"quantity":       2,
		"payment_method": "Efectivo",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var created struct {
		Data struct {
			ID          uuid.UUID `json:"id"`
			ProductName string    `json:"product_name"`
			CreatedBy   string    `json:"created_by"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Alfajor", created.Data.ProductName)
	assert.Equal(t, "tesorero", created.Data.CreatedBy)

	t.Run("insufficient stock is a conflict", func(t *testing.T) {
		status, _ := do(t, app, "POST", "/api/v1/sales", fiber.Map{
			"product_id":     productID,
			"quantity":       5,
			"payment_method": "Efectivo",
		})
		assert.Equal(t, fiber.StatusConflict, status)
	})

	t.Run("invalid quantity is unprocessable", func(t *testing.T) {
		status, _ := do(t, app, "POST", "/api/v1/sales", fiber.Map{
			"product_id":     productID,
			"quantity":       0,
			"payment_method": "Efectivo",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	})

	t.Run("unknown sale is not found", func(t *testing.T) {
		status, _ := do(t, app, "GET", "/api/v1/sales/"+uuid.NewString(), nil)
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		status, _ := do(t, app, "GET", "/api/v1/sales/not-a-uuid", nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("history lists the sale", func(t *testing.T) {
		status, body := do(t, app, "GET", "/api/v1/sales", nil)
		require.Equal(t, fiber.StatusOK, status)

		var history struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(body, &history))
		assert.Equal(t, 1, history.Count)
	})

	t.Run("delete restores stock", func(t *testing.T) {
		status, _ := do(t, app, "DELETE", "/api/v1/sales/"+created.Data.ID.String(), nil)
		require.Equal(t, fiber.StatusOK, status)

		status, body := do(t, app, "GET", "/api/v1/products/"+productID.String(), nil)
		require.Equal(t, fiber.StatusOK, status)

		var product struct {
			Stock int `json:"stock"`
		}
		require.NoError(t, json.Unmarshal(body, &product))
		assert.Equal(t, 3, product.Stock)
	})
}

func TestProductValidation(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, "POST", "/api/v1/products", fiber.Map{
		"name":           "Gaseosa",
		"stock":          1,
		"purchase_price": "3.00",
		"sale_price":     "2.00",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = do(t, app, "POST", "/api/v1/products/"+uuid.NewString()+"/toggle-active", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHealthAndSummary(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"database":"ok"`)

	status, _ = do(t, app, "GET", "/api/v1/dashboard/summary", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
