package userctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetSubject(ctx))

	ctx = SetSubject(ctx, "u1")
	assert.Equal(t, "u1", GetSubject(ctx))
}

func TestAuthenticator(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "anonymous", GetAuthenticator(ctx))

	ctx = SetAuthenticator(ctx, "windows-live")
	assert.Equal(t, "windows-live", GetAuthenticator(ctx))
}
