package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	ConfigureJWT("unit-test-secret", 1, "test")

	token, err := GenerateToken(42, "ADMIN")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "test", claims.Issuer)

	_, err = ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestParseTokenWrongSecret(t *testing.T) {
	ConfigureJWT("first-secret", 1, "test")
	token, err := GenerateToken(7, "USER")
	require.NoError(t, err)

	ConfigureJWT("second-secret", 1, "test")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestNewPagedResponse(t *testing.T) {
	page := NewPagedResponse([]int{1, 2, 3}, 1, 3, 7)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.IsLast)

	last := NewPagedResponse([]int{7}, 3, 3, 7)
	assert.True(t, last.IsLast)

	empty := NewPagedResponse[int](nil, 1, 10, 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
	assert.True(t, empty.IsLast)
}

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query            string
		wantNo, wantSize int
	}{
		{"", 1, DefaultPageSize},
		{"?pageNo=3&pageSize=5", 3, 5},
		{"?pageNo=0&pageSize=-1", 1, DefaultPageSize},
		{"?pageNo=abc&pageSize=1000", 1, MaxPageSize},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x"+tc.query, nil)
		no, size := PageParams(c)
		assert.Equal(t, tc.wantNo, no, tc.query)
		assert.Equal(t, tc.wantSize, size, tc.query)
	}
}
