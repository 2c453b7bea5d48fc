package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCmdIssuesValidToken(t *testing.T) {
	var out bytes.Buffer
	cmd := newTokenCmd("secret")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"42", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	claims, err := utils.ValidateToken("secret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCmdRejectsBadInput(t *testing.T) {
	cmd := newTokenCmd("")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"42"})
	assert.Error(t, cmd.Execute())

	cmd = newTokenCmd("secret")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"alice"})
	assert.Error(t, cmd.Execute())
}
