package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymdash/internal/middleware"
	"github.com/2beens/gymdash/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockChecker := NewMocktokenChecker(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockChecker)

	testCases := []struct {
		name               string
		method             string
		authHeader         string
		expectCheck        bool
		checkResult        bool
		expectedStatusCode int
	}{
		{
			name:               "ReadWithoutToken",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MutationWithoutToken",
			method:             "POST",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "MutationWithoutBearerPrefix",
			method:             "POST",
			authHeader:         "valid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "MutationValidToken",
			method:             "POST",
			authHeader:         "Bearer valid-token",
			expectCheck:        true,
			checkResult:        true,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MutationInvalidToken",
			method:             "POST",
			authHeader:         "Bearer invalid-token",
			expectCheck:        true,
			checkResult:        false,
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.expectCheck {
				mockChecker.EXPECT().Check(gomock.Any()).Return(tc.checkResult).Times(1)
			}

			req, err := http.NewRequest(tc.method, "/api/add", nil)
			require.NoError(t, err)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()
			handler := authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}

func TestAuthMiddlewareHandler_NoChecker(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddlewareHandler(nil)

	req, err := http.NewRequest("POST", "/api/add", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	authMiddleware.AuthCheck()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBcryptTokenChecker(t *testing.T) {
	hash, err := pkg.HashToken("s3cret")
	require.NoError(t, err)

	checker := middleware.NewBcryptTokenChecker(hash)
	assert.True(t, checker.Check("s3cret"))
	assert.False(t, checker.Check("s3cret "))
	assert.False(t, checker.Check(""))
}
