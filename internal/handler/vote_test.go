package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestVoterIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			"first forwarded-for hop wins",
			map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1", "X-Real-IP": "9.9.9.9"},
			"1.2.3.4",
		},
		{
			"forwarded-for entries are trimmed",
			map[string]string{"X-Forwarded-For": "  1.2.3.4 , 10.0.0.1"},
			"1.2.3.4",
		},
		{
			"x-real-ip fallback",
			map[string]string{"X-Real-IP": "9.9.9.9"},
			"9.9.9.9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/ideas/x/vote", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			if got := VoterIdentity(c); got != tt.want {
				t.Errorf("VoterIdentity() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("peer address fallback", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/api/ideas/x/vote", nil)
		c.Request.RemoteAddr = "172.16.0.9:52011"
		if got := VoterIdentity(c); got != "172.16.0.9" {
			t.Errorf("VoterIdentity() = %q, want peer address", got)
		}
	})
}
