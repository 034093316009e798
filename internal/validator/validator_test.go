package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enrollment struct {
	Start    string `json:"start_date" binding:"required,calendar_date"`
	From     string `json:"from" binding:"omitempty,calendar_month"`
	Schedule string `json:"schedule_id" binding:"required,schedule_id"`
}

func bindBody(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var dst enrollment
	return Bind(c, &dst)
}

func TestCustomTags(t *testing.T) {
	Setup()

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"valid", `{"start_date":"2025-02-03","from":"2025-03","schedule_id":"full-day"}`, nil},
		{"missing month is allowed", `{"start_date":"2025-02-03","schedule_id":"morning"}`, nil},
		{"day out of range", `{"start_date":"2025-02-30","schedule_id":"morning"}`, []string{"start_date"}},
		{"slashes", `{"start_date":"03/02/2025","schedule_id":"morning"}`, []string{"start_date"}},
		{"bad month", `{"start_date":"2025-02-03","from":"2025-13","schedule_id":"morning"}`, []string{"from"}},
		{"unknown schedule", `{"start_date":"2025-02-03","schedule_id":"weekend"}`, []string{"schedule_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := bindBody(t, tt.body)
			if tt.fields == nil {
				assert.Nil(t, fields)
				return
			}
			require.Len(t, fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestCustomTagMessage(t *testing.T) {
	Setup()

	fields := bindBody(t, `{"start_date":"2025-2-3","schedule_id":"morning"}`)
	assert.Equal(t, "start_date must be a calendar date in YYYY-MM-DD form", fields["start_date"])
}

func TestSyntaxErrorReportedAsDetail(t *testing.T) {
	Setup()

	fields := bindBody(t, `{"start_date":`)
	assert.Contains(t, fields, "detail")
}
