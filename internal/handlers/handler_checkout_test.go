package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/handlers"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCheckout *MockCheckoutService
	userID       string
	token        string
}

func (suite *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockCheckout = new(MockCheckoutService)
	handlers.RegisterCheckoutRoutes(suite.router.Group("/api/v1"), suite.mockCheckout)

	suite.userID = uuid.NewString()
	suite.token = generateTestToken(suite.userID)
}

func (suite *CheckoutHandlerTestSuite) post(body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CheckoutHandlerTestSuite) TestCheckout_PartialCompletion() {
	items := []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: "0241234567"},
		{ItemID: "b", PackageID: "mtn-3", RecipientMsisdn: "0241234567"},
	}
	result := &domain.CheckoutResult{
		State: domain.CheckoutFailed,
		Succeeded: []domain.ItemOutcome{{
			ItemID: "a",
			Entry:  domain.LedgerEntry{EntryID: "e1", Amount: -1000, Kind: domain.EntryKindPurchase, Status: domain.EntryStatusSuccess},
			Order:  domain.BundleOrder{OrderID: "o1", EntryID: "e1", Status: domain.OrderStatusDelivered},
		}},
		Failure: &domain.ItemFailure{
			ItemID: "b",
			Reason: domain.FailureInsufficientFunds,
			Error:  "insufficient funds",
			Entry:  &domain.LedgerEntry{EntryID: "e2", Amount: -2000, Status: domain.EntryStatusFailed},
		},
		Remaining: []string{},
	}
	suite.mockCheckout.On("Checkout", mock.Anything, suite.userID, "key-1", items).Return(result, nil).Once()

	w := suite.post(`{"idempotencyKey":"key-1","items":[
		{"itemID":"a","packageID":"mtn-2","recipientMsisdn":"0241234567"},
		{"itemID":"b","packageID":"mtn-3","recipientMsisdn":"0241234567"}]}`, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CheckoutResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("key-1", resp.IdempotencyKey)
	suite.Equal(domain.CheckoutFailed, resp.State)
	suite.Require().Len(resp.Succeeded, 1)
	suite.Equal("-10.00", resp.Succeeded[0].Entry.AmountGHS)
	suite.Require().NotNil(resp.Failure)
	suite.Equal(domain.FailureInsufficientFunds, resp.Failure.Reason)
	suite.Require().NotNil(resp.Failure.Entry)
	suite.Equal(domain.EntryStatusFailed, resp.Failure.Entry.Status)
	suite.mockCheckout.AssertExpectations(suite.T())
}

func (suite *CheckoutHandlerTestSuite) TestCheckout_HeaderKeyWins() {
	suite.mockCheckout.On("Checkout", mock.Anything, suite.userID, "from-header", mock.Anything).
		Return(&domain.CheckoutResult{State: domain.CheckoutCompleted}, nil).Once()

	w := suite.post(`{"idempotencyKey":"from-body","items":[{"itemID":"a","packageID":"mtn-1","recipientMsisdn":"0241234567"}]}`,
		map[string]string{"Idempotency-Key": "from-header"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CheckoutResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("from-header", resp.IdempotencyKey)
	suite.NotNil(resp.Remaining)
}

func (suite *CheckoutHandlerTestSuite) TestCheckout_GeneratesKey() {
	var gotKey string
	suite.mockCheckout.On("Checkout", mock.Anything, suite.userID, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) { gotKey = args.String(2) }).
		Return(&domain.CheckoutResult{State: domain.CheckoutCompleted}, nil).Once()

	w := suite.post(`{"items":[{"itemID":"a","packageID":"mtn-1","recipientMsisdn":"0241234567"}]}`, nil)

	suite.Equal(http.StatusOK, w.Code)
	_, err := uuid.Parse(gotKey)
	suite.NoError(err)
}

func (suite *CheckoutHandlerTestSuite) TestCheckout_InvalidCarts() {
	tests := []struct {
		name string
		body string
	}{
		{"empty cart", `{"items":[]}`},
		{"missing items", `{}`},
		{"missing package", `{"items":[{"itemID":"a","recipientMsisdn":"0241234567"}]}`},
		{"malformed json", `{"items":`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.post(tt.body, nil)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockCheckout.AssertNotCalled(suite.T(), "Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CheckoutHandlerTestSuite) TestCheckout_TooManyItems() {
	var sb strings.Builder
	sb.WriteString(`{"items":[`)
	for i := 0; i <= dto.MaxCartItems; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"itemID":"item-%d","packageID":"mtn-1","recipientMsisdn":"0241234567"}`, i)
	}
	sb.WriteString(`]}`)

	w := suite.post(sb.String(), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *CheckoutHandlerTestSuite) TestListOrders() {
	orders := []domain.BundleOrder{{OrderID: "o1", Amount: 1000, Status: domain.OrderStatusDelivered}}
	suite.mockCheckout.On("ListOrders", mock.Anything, suite.userID, 10, 5).Return(orders, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders?limit=10&offset=5", nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.OrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("10.00", resp[0].AmountGHS)
}

func TestCheckoutHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}
