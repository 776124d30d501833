package postgres

import (
	"testing"

	"github.com/nestorcad/viewercore/internal/database"
	"github.com/nestorcad/viewercore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_UsesInjectedDB(t *testing.T) {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)

	b := New(Dependencies{})
	b.SetDB(db)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	in := core.NewScene("L1")
	require.NoError(t, b.SetScene("L1", in))
	got, err := b.GetScene("L1")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestInit_Unreachable(t *testing.T) {
	b := New(Dependencies{DSN: database.PostgresDSN{
		Host: "127.0.0.1", Port: "1", Username: "u", Password: "p", Database: "d",
	}})
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
