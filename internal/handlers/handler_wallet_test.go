package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/handlers"
	"github.com/SscSPs/bundle_wallet_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WalletHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockLedger  *MockLedgerService
	mockDeposit *MockDepositService
	userID      string
	token       string
}

func (suite *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockLedger = new(MockLedgerService)
	suite.mockDeposit = new(MockDepositService)
	handlers.RegisterWalletRoutes(suite.router.Group("/api/v1"), suite.mockLedger, suite.mockDeposit)

	suite.userID = uuid.NewString()
	suite.token = generateTestToken(suite.userID)
}

func (suite *WalletHandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *WalletHandlerTestSuite) TestGetWallet_Success() {
	account := &domain.Account{AccountID: suite.userID, Balance: 1250, Timestamps: domain.Timestamps{UpdatedAt: time.Now()}}
	suite.mockLedger.On("GetAccount", mock.Anything, suite.userID).Return(account, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/wallet", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WalletResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(1250), resp.Balance)
	suite.Equal("12.50", resp.BalanceGHS)
	suite.Equal(domain.CurrencyGHS, resp.Currency)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestGetWallet_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallet", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "GetAccount", mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestGetWallet_NotFound() {
	suite.mockLedger.On("GetAccount", mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("account %s: %w", suite.userID, apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/wallet", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *WalletHandlerTestSuite) TestListEntries_PassesQuery() {
	token := "abc"
	want := dto.ListEntriesParams{Limit: 5, NextToken: &token, Status: "failed"}
	suite.mockLedger.On("ListEntries", mock.Anything, suite.userID, want).
		Return(&dto.ListEntriesResponse{Entries: []dto.EntryResponse{{EntryID: "e1", Status: domain.EntryStatusFailed}}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/wallet/entries?limit=5&nextToken=abc&status=failed", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestListEntries_BadStatus() {
	w := suite.do(http.MethodGet, "/api/v1/wallet/entries?status=pending", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "ListEntries", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestGetEntry() {
	entry := &domain.LedgerEntry{EntryID: "e1", AccountID: suite.userID, Amount: -500, Kind: domain.EntryKindPurchase, Status: domain.EntryStatusSuccess}
	suite.mockLedger.On("GetEntry", mock.Anything, suite.userID, "e1").Return(entry, nil).Once()
	suite.mockLedger.On("GetEntry", mock.Anything, suite.userID, "other").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/wallet/entries/e1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("-5.00", resp.AmountGHS)

	w = suite.do(http.MethodGet, "/api/v1/wallet/entries/other", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *WalletHandlerTestSuite) TestInitializeDeposit() {
	payment := &domain.PaymentInit{AuthorizationURL: "https://checkout.paystack.com/x", Reference: "BW-1"}
	suite.mockDeposit.On("InitializeDeposit", mock.Anything, suite.userID, int64(2550)).Return(payment, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/wallet/deposits/initialize", dto.InitializeDepositRequest{AmountGHS: "25.50"})

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.PaymentInit
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(*payment, resp)
}

func (suite *WalletHandlerTestSuite) TestInitializeDeposit_BadAmount() {
	w := suite.do(http.MethodPost, "/api/v1/wallet/deposits/initialize", dto.InitializeDepositRequest{AmountGHS: "1.234"})
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.mockDeposit.On("InitializeDeposit", mock.Anything, suite.userID, int64(50)).
		Return(nil, fmt.Errorf("%w: too small", apperrors.ErrInvalidAmount)).Once()
	w = suite.do(http.MethodPost, "/api/v1/wallet/deposits/initialize", dto.InitializeDepositRequest{AmountGHS: "0.50"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WalletHandlerTestSuite) TestVerifyDeposit_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", fmt.Errorf("%w: payment belongs to another account", apperrors.ErrForbidden), http.StatusForbidden},
		{"pending", fmt.Errorf("%w: payment is pending", apperrors.ErrValidation), http.StatusBadRequest},
		{"gateway down", fmt.Errorf("%w: timeout", apperrors.ErrUpstream), http.StatusBadGateway},
		{"conflict", apperrors.ErrReferenceConflict, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			ref := "ref-" + tt.name
			suite.mockDeposit.On("VerifyDeposit", mock.Anything, suite.userID, ref).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/wallet/deposits/verify", dto.VerifyDepositRequest{Reference: ref})

			suite.Equal(tt.want, w.Code)
			var resp handlers.ErrorResponse
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			suite.NotEmpty(resp.Error)
			if tt.want == http.StatusInternalServerError {
				suite.NotContains(resp.Error, "boom")
			}
		})
	}
}

func (suite *WalletHandlerTestSuite) TestVerifyDeposit_Success() {
	entry := &domain.LedgerEntry{EntryID: "d1", AccountID: suite.userID, Amount: 5000, Kind: domain.EntryKindDeposit, Status: domain.EntryStatusSuccess, ReferenceCode: "ref-1"}
	suite.mockDeposit.On("VerifyDeposit", mock.Anything, suite.userID, "ref-1").Return(entry, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/wallet/deposits/verify", dto.VerifyDepositRequest{Reference: "ref-1"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("d1", resp.EntryID)
	suite.Equal("50.00", resp.AmountGHS)
}

func TestWalletHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}
