package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "returnpulse/internal/errors"
	"returnpulse/pkg/contracts/domain"
)

func TestBindSelection(t *testing.T) {
	v := NewRequestValidator(nil)

	tests := []struct {
		name    string
		query   string
		want    domain.FilterSelection
		wantErr string
	}{
		{
			name:  "empty query constrains nothing",
			query: "",
			want:  domain.FilterSelection{},
		},
		{
			name:  "repeated and comma separated platforms",
			query: "platform=Flipkart&platform=Ajio,%20Myntra&sku=ABC123&reason=Size%20Issue",
			want: domain.FilterSelection{
				Platforms: []string{"Flipkart", "Ajio", "Myntra"},
				SKU:       "ABC123",
				Reason:    "Size Issue",
			},
		},
		{
			name:  "blank platform entries are ignored",
			query: "platform=,,Meesho,",
			want:  domain.FilterSelection{Platforms: []string{"Meesho"}},
		},
		{
			name:  "registry ids resolve to display names",
			query: "platform=amazon,AMAZON_FLEX&platform=Custom",
			want:  domain.FilterSelection{Platforms: []string{"Amazon Warehouse", "Amazon Flex", "Custom"}},
		},
		{
			name:    "overlong sku is rejected",
			query:   "sku=" + strings.Repeat("x", 257),
			wantErr: "sku",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/runs/x/records?"+tt.query, nil)
			sel, err := v.BindSelection(req)
			if tt.wantErr != "" {
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
				details := apiErr.Details.(apierrors.ValidationErrors)
				assert.Equal(t, tt.wantErr, details.Errors[0].Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel)
		})
	}
}

func TestParseLimit(t *testing.T) {
	v := NewRequestValidator(nil)

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"limit=10", 10, false},
		{"limit=0", 0, false},
		{"limit=-1", 0, true},
		{"limit=1001", 0, true},
		{"limit=ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := v.ParseLimit(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil), 1000)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateStructCustomTags(t *testing.T) {
	v := NewRequestValidator(nil)

	type request struct {
		Dimension string `json:"dimension" validate:"required,dimension"`
		Name      string `json:"name" validate:"omitempty,filename"`
	}

	assert.NoError(t, v.ValidateStruct(request{Dimension: "reason", Name: "returns.xlsx"}))

	err := v.ValidateStruct(request{Dimension: "colour", Name: "../etc/passwd"})
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	fields := map[string]string{}
	for _, fe := range apiErr.Details.(apierrors.ValidationErrors).Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "dimension must be one of: sku, reason, platform", fields["dimension"])
	assert.Equal(t, "name must be a plain file name", fields["name"])
}

func TestRegisterValidations(t *testing.T) {
	assert.NotPanics(t, func() { NewRequestValidator(nil) })

	v := validator.New()
	require.NoError(t, registerValidations(v, customValidations))

	err := registerValidations(validator.New(), []customValidation{
		{tag: "dimension", fn: isDimension},
		{tag: "", fn: isValidFilename},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `register "" validation`)
}

func TestContentTypeValidator(t *testing.T) {
	eh := apierrors.NewErrorHandler(nil, false)
	h := ContentTypeValidator(eh, "multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"get passes", http.MethodGet, "", http.StatusOK},
		{"multipart accepted", http.MethodPost, "multipart/form-data; boundary=x", http.StatusOK},
		{"missing content type", http.MethodPost, "", http.StatusBadRequest},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/ingest", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
