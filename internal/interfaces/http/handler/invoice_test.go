package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billingapp "github.com/invoicely/backend/internal/application/billing"
	"github.com/invoicely/backend/internal/domain/billing"
	"github.com/invoicely/backend/internal/domain/directory"
	"github.com/invoicely/backend/internal/domain/profile"
	"github.com/invoicely/backend/internal/domain/shared"
	"github.com/invoicely/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumberForOwner(ctx context.Context, ownerID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID)
	return args.String(0), args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.BusinessProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.BusinessProfile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *profile.BusinessProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type stubRenderer struct {
	output []byte
}

func (r *stubRenderer) RenderInvoice(ctx context.Context, doc *billingapp.InvoiceDocument) ([]byte, error) {
	return r.output, nil
}

type invoiceTestEnv struct {
	invoiceRepo *MockInvoiceRepository
	clientRepo  *MockClientRepository
	profileRepo *MockProfileRepository
	router      *gin.Engine
}

func setupInvoiceRouter(userID uuid.UUID) *invoiceTestEnv {
	gin.SetMode(gin.TestMode)

	env := &invoiceTestEnv{
		invoiceRepo: new(MockInvoiceRepository),
		clientRepo:  new(MockClientRepository),
		profileRepo: new(MockProfileRepository),
	}

	invoiceService := billingapp.NewInvoiceService(env.invoiceRepo, env.clientRepo)
	statsService := billingapp.NewStatsService(env.invoiceRepo)
	pdfService := billingapp.NewInvoicePDFService(
		env.invoiceRepo, env.clientRepo, env.profileRepo, &stubRenderer{output: []byte("%PDF-1.4 test")})
	handler := NewInvoiceHandler(invoiceService, statsService, pdfService)

	r := gin.New()
	group := r.Group("/api/v1/invoices", authAs(userID))
	group.POST("", handler.Create)
	group.GET("", handler.List)
	group.GET("/:id", handler.GetByID)
	group.PUT("/:id", handler.Update)
	group.PATCH("/:id/status", handler.UpdateStatus)
	group.DELETE("/:id", handler.Delete)
	group.GET("/:id/pdf", handler.ExportPDF)
	stats := r.Group("/api/v1/stats", authAs(userID))
	stats.GET("/summary", handler.Stats)
	stats.GET("/revenue", handler.Revenue)
	env.router = r
	return env
}

func newTestInvoice(t *testing.T, ownerID uuid.UUID, number string) *billing.Invoice {
	t.Helper()
	issue := time.Now()
	due := issue.AddDate(0, 0, 30)
	inv, err := billing.NewInvoice(ownerID, number, nil, issue, due, valueobject.USD)
	require.NoError(t, err)
	_, err = inv.AddItem("Consulting", decimal.NewFromInt(10), decimal.NewFromInt(150))
	require.NoError(t, err)
	return inv
}

func TestInvoiceHandler_Create(t *testing.T) {
	ownerID := uuid.New()
	clientID := uuid.New()

	t.Run("creates an invoice with a generated number", func(t *testing.T) {
		env := setupInvoiceRouter(ownerID)
		client, err := directory.NewClient(ownerID, "Acme Corp", "", "", "", "")
		require.NoError(t, err)

		env.clientRepo.On("FindByIDForOwner", mock.Anything, ownerID, clientID).Return(client, nil)
		env.invoiceRepo.On("NextInvoiceNumber", mock.Anything, ownerID).Return("INV-0001", nil)
		env.invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		payload := `{
			"client_id": "` + clientID.String() + `",
			"date": "2026-08-01",
			"due_date": "2026-08-31",
			"items": [{"description": "Consulting", "quantity": 10, "rate": 150}],
			"tax_rate": 10,
			"discount": 0,
			"discount_type": "percentage",
			"currency": "USD"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := decodeResponse(t, w)
		data := body["data"].(map[string]any)
		assert.Equal(t, "INV-0001", data["invoice_number"])
		assert.Equal(t, "draft", data["status"])
		env.invoiceRepo.AssertExpectations(t)
	})

	t.Run("rejects a missing item list", func(t *testing.T) {
		env := setupInvoiceRouter(ownerID)

		payload := `{
			"client_id": "` + clientID.String() + `",
			"date": "2026-08-01",
			"due_date": "2026-08-31",
			"items": [],
			"discount_type": "percentage",
			"currency": "USD"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		env.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceHandler_UpdateStatus(t *testing.T) {
	ownerID := uuid.New()

	t.Run("marks a draft invoice as sent", func(t *testing.T) {
		env := setupInvoiceRouter(ownerID)
		inv := newTestInvoice(t, ownerID, "INV-0003")

		env.invoiceRepo.On("FindByIDForOwner", mock.Anything, ownerID, inv.ID).Return(inv, nil)
		env.invoiceRepo.On("Save", mock.Anything, inv).Return(nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/invoices/"+inv.ID.String()+"/status",
			bytes.NewBufferString(`{"status":"sent"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeResponse(t, w)
		data := body["data"].(map[string]any)
		assert.Equal(t, "sent", data["stored_status"])
	})

	t.Run("returns 422 for an illegal transition", func(t *testing.T) {
		env := setupInvoiceRouter(ownerID)
		inv := newTestInvoice(t, ownerID, "INV-0004")

		env.invoiceRepo.On("FindByIDForOwner", mock.Anything, ownerID, inv.ID).Return(inv, nil)

		// a draft can only move to sent
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/invoices/"+inv.ID.String()+"/status",
			bytes.NewBufferString(`{"status":"paid"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		body := decodeResponse(t, w)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_STATE", errInfo["code"])
	})
}

func TestInvoiceHandler_ExportPDF(t *testing.T) {
	ownerID := uuid.New()
	env := setupInvoiceRouter(ownerID)
	inv := newTestInvoice(t, ownerID, "INV-0042")

	env.invoiceRepo.On("FindByIDForOwner", mock.Anything, ownerID, inv.ID).Return(inv, nil)
	env.profileRepo.On("FindByOwner", mock.Anything, ownerID).Return(nil, shared.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+inv.ID.String()+"/pdf", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="INV-0042.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())
}

func TestInvoiceHandler_Stats(t *testing.T) {
	ownerID := uuid.New()
	env := setupInvoiceRouter(ownerID)

	sent := newTestInvoice(t, ownerID, "INV-0001")
	require.NoError(t, sent.TransitionTo(billing.InvoiceStatusSent, time.Now()))

	env.invoiceRepo.On("FindAllForOwner", mock.Anything, ownerID, mock.AnythingOfType("shared.Filter")).
		Return([]billing.Invoice{*sent}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/summary", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeResponse(t, w)
	data := body["data"].(map[string]any)
	assert.Contains(t, data, "USD")
	assert.Contains(t, data, "IDR")
}
