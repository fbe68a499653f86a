package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"confidential-lending/internal/core/ports"
	"confidential-lending/internal/service"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
jwt:
  secret: "cli-test-secret"
  expiry: "1h"
crypto:
  master_key: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
storage:
  driver: "memory"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestParseGrants(t *testing.T) {
	grants, err := parseGrants([]string{"0x00000000000000000000000000000000000a11ce:1000"})
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000a11ce"), grants[0].account)
	assert.Equal(t, uint64(1000), grants[0].amount)

	for _, bad := range []string{"0xabc:10", "0x00000000000000000000000000000000000a11ce", "0x00000000000000000000000000000000000a11ce:0", "0x00000000000000000000000000000000000a11ce:x"} {
		_, err := parseGrants([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestTokenCmd(t *testing.T) {
	path := writeConfig(t)
	operator := "0x00000000000000000000000000000000000000ff"

	cmd := newTokenCmd(&path)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--account", operator, "--role", "operator"})
	require.NoError(t, cmd.Execute())

	svc := service.NewJWTTokenService("cli-test-secret", 0, "confidential-lending")
	claims, err := svc.Validate(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(operator), claims.Account)
	assert.Equal(t, ports.RoleOperator, claims.Role)
}

func TestTokenCmd_RejectsUnknownRole(t *testing.T) {
	path := writeConfig(t)

	cmd := newTokenCmd(&path)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--account", "0x00000000000000000000000000000000000a11ce", "--role", "admin"})
	assert.Error(t, cmd.Execute())
}

func TestEncryptInputCmd(t *testing.T) {
	path := writeConfig(t)

	cmd := newEncryptInputCmd(&path)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--owner", "0x00000000000000000000000000000000000a11ce", "--amount", "600"})
	require.NoError(t, cmd.Execute())

	var body map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	ct, err := hexutil.Decode(body["ciphertext"])
	require.NoError(t, err)
	assert.NotEmpty(t, ct)
	proof, err := hexutil.Decode(body["proof"])
	require.NoError(t, err)
	assert.NotEmpty(t, proof)
}
