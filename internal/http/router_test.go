package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/auth"
	"github.com/shokulab/backend/internal/config"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/http/handlers"
	"github.com/shokulab/backend/internal/middleware"
	"github.com/shokulab/backend/internal/models"
	"github.com/shokulab/backend/internal/repositories/memory"
	"github.com/shokulab/backend/internal/services"
	"github.com/shokulab/backend/internal/templates"
	"github.com/shokulab/backend/internal/verification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret        = "test-secret"
	testInternalToken = "internal-token"
)

type testApp struct {
	app           *fiber.App
	store         *memory.Store
	users         *memory.Users
	notifications *memory.Notifications
	publisher     *memory.Publisher

	creator      uuid.UUID
	counterparty uuid.UUID
	basic        uuid.UUID
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:        testSecret,
		InternalAPIToken: testInternalToken,
		EscrowFeeBPS:     360,
		EscrowFeeMin:     100,
		EscrowFeeMax:     10000,
		ContractTimezone: "Asia/Tokyo",
	}
	ta := &testApp{
		store:         memory.NewStore(),
		users:         memory.NewUsers(),
		notifications: &memory.Notifications{},
		publisher:     &memory.Publisher{},
	}
	ta.creator = ta.users.Add("甲食堂", string(verification.LevelVerified))
	ta.counterparty = ta.users.Add("乙ビストロ", string(verification.LevelPremium))
	ta.basic = ta.users.Add("丙カフェ", string(verification.LevelBasic))

	log := zap.NewNop()
	audit := &memory.Audit{}
	registry := templates.MustDefaultRegistry()
	contractSvc := services.NewContractService(ta.store, ta.users, audit, registry,
		verification.NewDefaultGate(), ta.publisher, cfg, log)
	escrowSvc := services.NewEscrowService(ta.store.Escrows(), ta.store, audit, ta.publisher, log)

	ta.app = fiber.New()
	SetupRouter(ta.app, cfg, log, nil, Handlers{
		Contracts: handlers.NewContractHandler(contractSvc, escrowSvc, log),
		Templates: handlers.NewTemplateHandler(registry),
		Payments:  handlers.NewPaymentHandler(cfg.FeeSchedule()),
		Me:        handlers.NewMeHandler(contractSvc, services.NewNotificationService(ta.notifications), log),
		Internal:  handlers.NewInternalHandler(escrowSvc, log),
		WS:        handlers.NewWSHub(cfg, nil, log),
	})
	return ta
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := auth.GenerateJWT(testSecret, userID, time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request as userID (uuid.Nil for anonymous) and decodes the body.
func (ta *testApp) do(t *testing.T, method, path string, userID uuid.UUID, body string, headers ...string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+token(t, userID))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func createBody(value any, method string, counterparty uuid.UUID) string {
	content := map[string]any{
		"product":          "有機トマト",
		"quantity":         "毎週20kg",
		"price":            "月額50,000円",
		"deliverySchedule": "毎週月曜日午前中",
		"paymentTerms":     "月末締め翌月末払い",
		"contractPeriod":   "2025年7月1日〜2025年12月31日",
		"contractValue":    value,
		"paymentMethod":    method,
	}
	body, _ := json.Marshal(map[string]any{
		"template_type":   templates.IDFoodTrading,
		"content":         content,
		"counterparty_id": counterparty.String(),
	})
	return string(body)
}

func (ta *testApp) createContract(t *testing.T, value any, method string) string {
	t.Helper()
	status, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts", ta.creator, createBody(value, method, ta.counterparty))
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	return data["id"].(string)
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodGet, "/health", uuid.Nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ta := newTestApp(t)
	status, _ := ta.do(t, fiber.MethodGet, "/api/v1/contracts", uuid.Nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/contracts", uuid.Nil, "", "Authorization", "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCreateContractEndpoint(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts", ta.creator, createBody(50000, "shokulab_escrow", ta.counterparty))
	require.Equal(t, fiber.StatusCreated, status, body)

	data := body["data"].(map[string]any)
	assert.Equal(t, models.ContractStatusPending, data["status"])
	assert.Equal(t, ta.creator.String(), data["created_by"])
	content := data["content"].(map[string]any)
	assert.Equal(t, "有機トマト", content["product"])
	assert.Contains(t, data["generated_content"], "買主：乙ビストロ")
	assert.Len(t, ta.publisher.OfType(events.EventContractReceived), 1)
}

func TestCreateContractEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		user       func(ta *testApp) uuid.UUID
		body       func(ta *testApp) string
		wantStatus int
		wantReason string
	}{
		{
			name:       "malformed json",
			user:       func(ta *testApp) uuid.UUID { return ta.creator },
			body:       func(*testApp) string { return `{"template_type":` },
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "non-numeric value",
			user:       func(ta *testApp) uuid.UUID { return ta.creator },
			body:       func(ta *testApp) string { return createBody("5万円", "cash", ta.counterparty) },
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unknown payment method",
			user:       func(ta *testApp) uuid.UUID { return ta.creator },
			body:       func(ta *testApp) string { return createBody(1000, "bitcoin", ta.counterparty) },
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "unknown template",
			user: func(ta *testApp) uuid.UUID { return ta.creator },
			body: func(*testApp) string {
				return `{"template_type":"lease","content":{"contractValue":1000,"paymentMethod":"cash"}}`
			},
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:       "basic user",
			user:       func(ta *testApp) uuid.UUID { return ta.basic },
			body:       func(ta *testApp) string { return createBody(1000, "cash", ta.counterparty) },
			wantStatus: fiber.StatusForbidden,
			wantReason: verification.ReasonContractNotAllowed,
		},
		{
			name:       "over the verified limit",
			user:       func(ta *testApp) uuid.UUID { return ta.creator },
			body:       func(ta *testApp) string { return createBody(150000, "cash", ta.counterparty) },
			wantStatus: fiber.StatusForbidden,
			wantReason: verification.ReasonContractValueExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			status, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts", tt.user(ta), tt.body(ta))
			assert.Equal(t, tt.wantStatus, status, body)
			assert.NotEmpty(t, body["error"])
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, body["reason"])
				assert.NotEmpty(t, body["action"])
			}
			assert.Zero(t, ta.store.EscrowCount())
		})
	}
}

func TestOverLimitMessageIsGrouped(t *testing.T) {
	ta := newTestApp(t)
	_, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts", ta.creator, createBody(150000, "cash", ta.counterparty))
	assert.Contains(t, body["error"], "150,000円")
}

func TestAgreeEndpointCreatesEscrow(t *testing.T) {
	ta := newTestApp(t)
	id := ta.createContract(t, 50000, "shokulab_escrow")

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+id+"/agree", ta.counterparty, "")
	require.Equal(t, fiber.StatusOK, status, body)
	data := body["data"].(map[string]any)
	contract := data["contract"].(map[string]any)
	assert.Equal(t, models.ContractStatusAgreed, contract["status"])
	assert.Equal(t, ta.counterparty.String(), contract["agreed_by"])
	escrow := data["escrow"].(map[string]any)
	assert.EqualValues(t, 1800, escrow["fee"])
	assert.EqualValues(t, 50000, escrow["amount"])

	status, body = ta.do(t, fiber.MethodGet, "/api/v1/contracts/"+id+"/escrow", ta.creator, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.EscrowStatusPending, body["data"].(map[string]any)["status"])

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/contracts/"+id+"/escrow", ta.basic, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	// Already agreed.
	status, _ = ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+id+"/reject", ta.counterparty, "")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, 1, ta.store.EscrowCount())
}

func TestCreatorCannotRespond(t *testing.T) {
	ta := newTestApp(t)
	id := ta.createContract(t, 1000, "cash")

	status, _ := ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+id+"/respond", ta.creator, `{"decision":"agree"}`)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestRespondEndpoint(t *testing.T) {
	ta := newTestApp(t)
	id := ta.createContract(t, 1000, "cash")

	status, _ := ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+id+"/respond", ta.counterparty, `{"decision":"maybe"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+id+"/respond", ta.counterparty,
		`{"decision":"reject","reason":"価格が合わない"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, models.ContractStatusRejected, data["contract"].(map[string]any)["status"])
	assert.Nil(t, data["escrow"])

	rejected := ta.publisher.OfType(events.EventContractRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "価格が合わない", rejected[0].String(events.KeyReason))

	status, body = ta.do(t, fiber.MethodGet, "/api/v1/contracts/"+id+"/events", ta.creator, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/contracts/"+id+"/events", ta.basic, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestContractNotFound(t *testing.T) {
	ta := newTestApp(t)
	status, _ := ta.do(t, fiber.MethodGet, "/api/v1/contracts/"+uuid.NewString(), ta.creator, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/contracts/not-a-uuid", ta.creator, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+uuid.NewString()+"/agree", ta.counterparty, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestListContractsByRole(t *testing.T) {
	ta := newTestApp(t)
	first := ta.createContract(t, 1000, "cash")
	ta.createContract(t, 2000, "cash")
	status, _ := ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+first+"/agree", ta.counterparty, "")
	require.Equal(t, fiber.StatusOK, status)

	_, body := ta.do(t, fiber.MethodGet, "/api/v1/contracts?role=created", ta.creator, "")
	assert.Len(t, body["data"], 2)

	_, body = ta.do(t, fiber.MethodGet, "/api/v1/contracts?role=received", ta.counterparty, "")
	assert.Len(t, body["data"], 1)

	_, body = ta.do(t, fiber.MethodGet, "/api/v1/contracts?status=pending", ta.creator, "")
	assert.Len(t, body["data"], 1)

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/contracts?role=owner", ta.creator, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestPreviewEndpointIsPublic(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodPost, "/api/v1/contracts/preview", uuid.Nil,
		`{"template_id":"food_trading","fields":{"product":"米"},"party_a":"甲","party_b":"乙"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	content := body["data"].(map[string]any)["content"].(string)
	assert.Contains(t, content, "米")
	assert.Contains(t, content, templates.MissingValue)
}

func TestTemplateEndpoints(t *testing.T) {
	ta := newTestApp(t)
	_, body := ta.do(t, fiber.MethodGet, "/api/v1/templates", uuid.Nil, "")
	assert.Len(t, body["data"], 4)

	status, _ := ta.do(t, fiber.MethodGet, "/api/v1/templates/"+templates.IDEquipment, uuid.Nil, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/templates/lease", uuid.Nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPaymentMethodsEndpoint(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodGet, "/api/v1/payment-methods?contract_value=50000", uuid.Nil, "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Len(t, data["methods"], 7)
	assert.EqualValues(t, 1800, data["fee_preview"].(map[string]any)["fee"])
	recommended := data["recommended"].([]any)
	require.NotEmpty(t, recommended)
	assert.Equal(t, "shokulab_escrow", recommended[0].(map[string]any)["id"])

	status, _ = ta.do(t, fiber.MethodGet, "/api/v1/payment-methods?contract_value=abc", uuid.Nil, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAssessEndpoint(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodPost, "/api/v1/payment-methods/assess", uuid.Nil,
		`{"payment_method":"monthly_settlement","payment_timing":"net_payment","contract_value":80000,"relationship":"new"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "high", body["data"].(map[string]any)["risk_level"])

	status, _ = ta.do(t, fiber.MethodPost, "/api/v1/payment-methods/assess", uuid.Nil, `{"payment_method":"bitcoin"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestPermissionsEndpoint(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodGet, "/api/v1/me/permissions?contract_value=150000", ta.creator, "")
	require.Equal(t, fiber.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, string(verification.LevelVerified), data["level"])
	check := data["contract_check"].(map[string]any)
	assert.Equal(t, false, check["allowed"])
	assert.Equal(t, verification.ReasonContractValueExceeded, check["reason"])
}

func TestNotificationEndpoints(t *testing.T) {
	ta := newTestApp(t)
	n := &models.InAppNotification{UserID: ta.counterparty, Type: events.EventContractReceived, Title: "契約書が届きました"}
	require.NoError(t, ta.notifications.Create(context.Background(), n))

	_, body := ta.do(t, fiber.MethodGet, "/api/v1/me/notifications?unread=true", ta.counterparty, "")
	assert.Len(t, body["data"], 1)

	// Someone else's notification is not found.
	status, _ := ta.do(t, fiber.MethodPost, "/api/v1/me/notifications/"+n.ID.String()+"/read", ta.creator, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = ta.do(t, fiber.MethodPost, "/api/v1/me/notifications/"+n.ID.String()+"/read", ta.counterparty, "")
	assert.Equal(t, fiber.StatusOK, status)

	_, body = ta.do(t, fiber.MethodGet, "/api/v1/me/notifications?unread=true", ta.counterparty, "")
	assert.Empty(t, body["data"])
}

func TestEscrowCallback(t *testing.T) {
	ta := newTestApp(t)
	id := ta.createContract(t, 50000, "shokulab_escrow")
	status, _ := ta.do(t, fiber.MethodPost, "/api/v1/contracts/"+id+"/agree", ta.counterparty, "")
	require.Equal(t, fiber.StatusOK, status)

	path := "/internal/escrow/" + id + "/status"
	status, _ = ta.do(t, fiber.MethodPost, path, uuid.Nil, `{"status":"completed"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = ta.do(t, fiber.MethodPost, path, uuid.Nil, `{"status":"completed"}`, middleware.InternalTokenHeader, "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = ta.do(t, fiber.MethodPost, path, uuid.Nil, `{"status":"refunded"}`, middleware.InternalTokenHeader, testInternalToken)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := ta.do(t, fiber.MethodPost, path, uuid.Nil, `{"status":"completed"}`, middleware.InternalTokenHeader, testInternalToken)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, models.EscrowStatusCompleted, body["data"].(map[string]any)["status"])
	assert.Len(t, ta.publisher.OfType(events.EventPaymentCompleted), 1)

	status, _ = ta.do(t, fiber.MethodPost, path, uuid.Nil, `{"status":"failed"}`, middleware.InternalTokenHeader, testInternalToken)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestErrorResponsesCarryRequestID(t *testing.T) {
	ta := newTestApp(t)
	status, body := ta.do(t, fiber.MethodGet, "/api/v1/contracts/"+uuid.NewString(), ta.creator, "", "X-Request-ID", "req-42")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "req-42", body["request_id"])
}
