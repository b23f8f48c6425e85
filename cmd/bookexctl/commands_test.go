package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Tree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate"},
		{"groups", "add"},
		{"groups", "remove"},
		{"groups", "list"},
		{"audit", "list"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

// 引数不足はDBに繋ぐ前に失敗する
func TestGroupsAdd_RequiresTwoArgs(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"groups", "add", "alice"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestAuditList_Flags(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"audit", "list"})
	require.NoError(t, err)

	f := cmd.Flags().Lookup("limit")
	require.NotNil(t, f)
	assert.Equal(t, "50", f.DefValue)
}
