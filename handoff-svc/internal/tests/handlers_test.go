package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "pizzeria-storefront/handoff-svc/internal/api/http"
	"pizzeria-storefront/handoff-svc/internal/domain"
	"pizzeria-storefront/handoff-svc/internal/mocks"
)

func TestGetInboxHandler(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		setupMock func(*mocks.StoreInterface)
		wantCode  int
		wantLen   int
	}{
		{
			name: "default limit",
			setupMock: func(m *mocks.StoreInterface) {
				m.On("Inbox", mock.Anything, "5511999999999", int64(0)).
					Return([]domain.HandoffMessage{sampleMessage()}, nil).Once()
			},
			wantCode: http.StatusOK,
			wantLen:  1,
		},
		{
			name:  "explicit limit",
			query: "?limit=5",
			setupMock: func(m *mocks.StoreInterface) {
				m.On("Inbox", mock.Anything, "5511999999999", int64(5)).
					Return([]domain.HandoffMessage{}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "bad limit",
			query:     "?limit=-1",
			setupMock: func(m *mocks.StoreInterface) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "redis error",
			setupMock: func(m *mocks.StoreInterface) {
				m.On("Inbox", mock.Anything, "5511999999999", int64(0)).Return(nil, assert.AnError).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMock(mockStore)
			handler := httpapi.NewHandler(mockStore, quietLogger())

			r := mux.NewRouter()
			handler.RegisterRoutes(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/api/handoffs/5511999999999"+testCase.query, nil))

			require.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantCode == http.StatusOK {
				var messages []domain.HandoffMessage
				require.NoError(t, json.NewDecoder(w.Body).Decode(&messages))
				assert.Len(t, messages, testCase.wantLen)
			}
		})
	}
}

func TestHandoffHealthAndMetrics(t *testing.T) {
	router := httpapi.NewRouter(httpapi.NewHandler(mocks.NewStoreInterface(t), quietLogger()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "handoff-svc")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
